package services

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
	pkgauth "github.com/BradenHooton/educenter/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

// MockStore implements Store for testing. It is embedded by the entity mocks.
type MockStore[T any] struct {
	GetByIDFunc  func(ctx context.Context, id int64) (*T, error)
	CountFunc    func(ctx context.Context, q listing.Query) (int64, error)
	FindPageFunc func(ctx context.Context, q listing.Query) ([]*T, error)
	DeleteFunc   func(ctx context.Context, id int64) error
}

func (m *MockStore[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockStore[T]) Count(ctx context.Context, q listing.Query) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, q)
	}
	return 0, nil
}

func (m *MockStore[T]) FindPage(ctx context.Context, q listing.Query) ([]*T, error) {
	if m.FindPageFunc != nil {
		return m.FindPageFunc(ctx, q)
	}
	return []*T{}, nil
}

func (m *MockStore[T]) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	MockStore[models.User]
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	GetByPhoneFunc func(ctx context.Context, phone string) (*models.User, error)
	CreateFunc     func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc     func(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	ActivateFunc   func(ctx context.Context, id int64) (bool, error)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	if m.GetByPhoneFunc != nil {
		return m.GetByPhoneFunc(ctx, phone)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Activate(ctx context.Context, id int64) (bool, error) {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, id)
	}
	return true, nil
}

// MockRegionRepository implements RegionRepository for testing
type MockRegionRepository struct {
	MockStore[models.Region]
	CreateFunc func(ctx context.Context, name string) (*models.Region, error)
	UpdateFunc func(ctx context.Context, id int64, name string) (*models.Region, error)
}

func (m *MockRegionRepository) Create(ctx context.Context, name string) (*models.Region, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name)
	}
	return &models.Region{ID: 1, Name: name}, nil
}

func (m *MockRegionRepository) Update(ctx context.Context, id int64, name string) (*models.Region, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, name)
	}
	return &models.Region{ID: id, Name: name}, nil
}

// MockCatalogRepository implements CatalogRepository for testing
type MockCatalogRepository struct {
	MockStore[models.CatalogItem]
	CreateFunc func(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error)
	UpdateFunc func(ctx context.Context, id int64, patch models.CatalogPatch) (*models.CatalogItem, error)
}

func (m *MockCatalogRepository) Create(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	item.ID = 1
	return item, nil
}

func (m *MockCatalogRepository) Update(ctx context.Context, id int64, patch models.CatalogPatch) (*models.CatalogItem, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return &models.CatalogItem{ID: id}, nil
}

// MockEduCenterRepository implements EduCenterRepository for testing
type MockEduCenterRepository struct {
	MockStore[models.EduCenter]
	CreateFunc func(ctx context.Context, c *models.EduCenter) (*models.EduCenter, error)
	UpdateFunc func(ctx context.Context, id int64, patch models.EduCenterPatch) (*models.EduCenter, error)
}

func (m *MockEduCenterRepository) Create(ctx context.Context, c *models.EduCenter) (*models.EduCenter, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	c.ID = 1
	return c, nil
}

func (m *MockEduCenterRepository) Update(ctx context.Context, id int64, patch models.EduCenterPatch) (*models.EduCenter, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return &models.EduCenter{ID: id}, nil
}

// MockBranchRepository implements BranchRepository for testing
type MockBranchRepository struct {
	MockStore[models.Branch]
	CreateFunc func(ctx context.Context, b *models.Branch) (*models.Branch, error)
	UpdateFunc func(ctx context.Context, id int64, patch models.BranchPatch) (*models.Branch, error)
}

func (m *MockBranchRepository) Create(ctx context.Context, b *models.Branch) (*models.Branch, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, b)
	}
	b.ID = 1
	return b, nil
}

func (m *MockBranchRepository) Update(ctx context.Context, id int64, patch models.BranchPatch) (*models.Branch, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return &models.Branch{ID: id}, nil
}

// MockResourceRepository implements ResourceRepository for testing
type MockResourceRepository struct {
	MockStore[models.Resource]
	CreateFunc func(ctx context.Context, res *models.Resource) (*models.Resource, error)
	UpdateFunc func(ctx context.Context, id int64, patch models.ResourcePatch) (*models.Resource, error)
}

func (m *MockResourceRepository) Create(ctx context.Context, res *models.Resource) (*models.Resource, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, res)
	}
	res.ID = 1
	return res, nil
}

func (m *MockResourceRepository) Update(ctx context.Context, id int64, patch models.ResourcePatch) (*models.Resource, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return &models.Resource{ID: id}, nil
}

// MockCommentRepository implements CommentRepository for testing
type MockCommentRepository struct {
	MockStore[models.Comment]
	CreateFunc func(ctx context.Context, c *models.Comment) (*models.Comment, error)
	UpdateFunc func(ctx context.Context, id int64, patch models.CommentPatch) (*models.Comment, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	c.ID = 1
	return c, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, id int64, patch models.CommentPatch) (*models.Comment, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return &models.Comment{ID: id}, nil
}

// MockLikeRepository implements LikeRepository for testing
type MockLikeRepository struct {
	MockStore[models.Like]
	CreateFunc func(ctx context.Context, l *models.Like) (*models.Like, error)
}

func (m *MockLikeRepository) Create(ctx context.Context, l *models.Like) (*models.Like, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, l)
	}
	l.ID = 1
	return l, nil
}

// MockCourseRegistrationRepository implements CourseRegistrationRepository for testing
type MockCourseRegistrationRepository struct {
	MockStore[models.CourseRegistration]
	CreateFunc func(ctx context.Context, reg *models.CourseRegistration) (*models.CourseRegistration, error)
	UpdateFunc func(ctx context.Context, id int64, patch models.CourseRegistrationPatch) (*models.CourseRegistration, error)
}

func (m *MockCourseRegistrationRepository) Create(ctx context.Context, reg *models.CourseRegistration) (*models.CourseRegistration, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, reg)
	}
	reg.ID = 1
	return reg, nil
}

func (m *MockCourseRegistrationRepository) Update(ctx context.Context, id int64, patch models.CourseRegistrationPatch) (*models.CourseRegistration, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return &models.CourseRegistration{ID: id}, nil
}

// MockEmailService records every OTP email it is asked to send
type MockEmailService struct {
	SendOTPEmailFunc func(ctx context.Context, to, name, code string) error

	mu   sync.Mutex
	Sent []SentOTP
}

// SentOTP is one call to MockEmailService.SendOTPEmail
type SentOTP struct {
	To   string
	Name string
	Code string
}

func (m *MockEmailService) SendOTPEmail(ctx context.Context, to, name, code string) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, SentOTP{To: to, Name: name, Code: code})
	m.mu.Unlock()

	if m.SendOTPEmailFunc != nil {
		return m.SendOTPEmailFunc(ctx, to, name, code)
	}
	return nil
}

// NewTestUser creates an active user with a known password for testing
func NewTestUser(id int64, email, password string) *models.User {
	hash, err := pkgauth.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	now := time.Now()
	return &models.User{
		ID:           id,
		Email:        email,
		Phone:        "+998901234567",
		PasswordHash: hash,
		FullName:     "Test User",
		Role:         models.RoleUser,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// syncDispatch runs dispatched work inline so tests can observe it
func syncDispatch(f func()) { f() }
