package infrastructure

import (
	"context"
	"errors"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"caddie/internal/service/checkout/domain"
)

// GormOrderRepository 是 OrderRepository 的 GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository 创建一个新的 GORM 订单仓储实例
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// AutoMigrate 建表，供组装根在启动时调用
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&OrderModel{}, &WebhookEventModel{})
}

func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	model, err := ToOrderModel(order)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *GormOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	model, err := ToOrderModel(order)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return ToDomainOrder(&model)
}

func (r *GormOrderRepository) FindByPaymentSession(ctx context.Context, sessionID string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).Where("payment_session_id = ?", sessionID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return ToDomainOrder(&model)
}

// GormWebhookEventRepository 是 WebhookEventRepository 的 GORM 实现。
// 去重依赖 webhook_events 的主键约束，而不是先查后插。
type GormWebhookEventRepository struct {
	db *gorm.DB
}

// NewGormWebhookEventRepository 创建一个新的 webhook 去重仓储实例
func NewGormWebhookEventRepository(db *gorm.DB) *GormWebhookEventRepository {
	return &GormWebhookEventRepository{db: db}
}

func (r *GormWebhookEventRepository) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	err := r.db.WithContext(ctx).Create(&WebhookEventModel{
		EventID:     eventID,
		ProcessedAt: time.Now(),
	}).Error
	if err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *gomysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
