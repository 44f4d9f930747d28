package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/school_go_server/config"
	"github.com/qs3c/school_go_server/internal/model"
	"github.com/qs3c/school_go_server/internal/model/dto"
	"github.com/qs3c/school_go_server/internal/pkg/cache"
	"github.com/qs3c/school_go_server/internal/pkg/money"
	"github.com/qs3c/school_go_server/internal/pkg/oss"
	"github.com/qs3c/school_go_server/internal/repository"
)

var (
	ErrEventNotFound      = errors.New("活动不存在")
	ErrEventFull          = errors.New("活动名额已满")
	ErrAlreadyRegistered  = errors.New("该学生已报名此活动")
	ErrUploadNotAvailable = errors.New("文件存储服务不可用")
)

const eventListCacheKey = "events:upcoming"

// EventService 活动列表与报名。
// 列表读路径允许走带 TTL 的缓存；报名与收费路径一律直读存储。
type EventService struct {
	eventRepo      *repository.EventRepository
	studentRepo    *repository.StudentRepository
	paymentService *PaymentService
	listCache      *cache.Cache
	ossClient      *oss.Client
	cfg            *config.Config
}

func NewEventService(
	eventRepo *repository.EventRepository,
	studentRepo *repository.StudentRepository,
	paymentService *PaymentService,
	listCache *cache.Cache,
	ossClient *oss.Client,
	cfg *config.Config,
) *EventService {
	return &EventService{
		eventRepo:      eventRepo,
		studentRepo:    studentRepo,
		paymentService: paymentService,
		listCache:      listCache,
		ossClient:      ossClient,
		cfg:            cfg,
	}
}

// List 即将开始的活动列表（cache-aside，缓存不可用时退化为直读）
func (s *EventService) List(ctx context.Context) ([]*dto.EventItem, error) {
	if s.listCache != nil {
		var cached []*dto.EventItem
		err := s.listCache.GetJSON(ctx, eventListCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("event list cache read failed: %v", err)
		}
	}

	events, err := s.eventRepo.ListUpcoming(time.Now())
	if err != nil {
		return nil, err
	}

	items := make([]*dto.EventItem, 0, len(events))
	for _, e := range events {
		registered, err := s.eventRepo.CountRegistrations(e.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, &dto.EventItem{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			PosterURL:   e.PosterURL,
			StartAt:     e.StartAt,
			Capacity:    e.Capacity,
			Fee:         money.FromMinorUnits(e.FeeCents, s.cfg.Policy.Currency),
			Registered:  registered,
		})
	}

	if s.listCache != nil {
		if err := s.listCache.SetJSON(ctx, eventListCacheKey, items); err != nil {
			log.Printf("event list cache write failed: %v", err)
		}
	}

	return items, nil
}

// Create 创建活动并失效列表缓存
func (s *EventService) Create(ctx context.Context, event *model.Event) error {
	if err := s.eventRepo.Create(event); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

// Register 活动报名。收费活动会走完整的支付流程（含重复支付检测与优惠码校验）。
func (s *EventService) Register(ctx context.Context, familyID, eventID int64, req *dto.RegisterEventRequest) (*dto.EventRegistered, *dto.PendingDuplicate, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEventNotFound
		}
		return nil, nil, err
	}

	student, err := s.studentRepo.GetByID(req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrStudentNotInFamily
		}
		return nil, nil, err
	}
	if student.FamilyID != familyID {
		return nil, nil, ErrStudentNotInFamily
	}

	registered, err := s.eventRepo.ExistsRegistration(eventID, req.StudentID)
	if err != nil {
		return nil, nil, err
	}
	if registered {
		return nil, nil, ErrAlreadyRegistered
	}

	if event.Capacity > 0 {
		count, err := s.eventRepo.CountRegistrations(eventID)
		if err != nil {
			return nil, nil, err
		}
		if count >= int64(event.Capacity) {
			return nil, nil, ErrEventFull
		}
	}

	reg := &model.EventRegistration{
		EventID:   eventID,
		FamilyID:  familyID,
		StudentID: req.StudentID,
	}
	result := &dto.EventRegistered{
		EventID:   eventID,
		StudentID: req.StudentID,
	}

	if event.FeeCents > 0 {
		created, dup, err := s.paymentService.StartPayment(familyID, &dto.StartPaymentRequest{
			Type:          model.PaymentTypeEventRegistration,
			StudentIDs:    []int64{req.StudentID},
			SubtotalCents: event.FeeCents,
			DiscountCode:  req.DiscountCode,
			Force:         req.Force,
		})
		if err != nil {
			return nil, nil, err
		}
		if dup != nil {
			return nil, dup, nil
		}
		reg.PaymentID = &created.PaymentID
		result.Payment = created
	}

	if err := s.eventRepo.CreateRegistration(reg); err != nil {
		return nil, nil, err
	}
	result.RegistrationID = reg.ID

	s.invalidateList(ctx)
	return result, nil, nil
}

// UploadPoster 上传活动海报并回写 URL
func (s *EventService) UploadPoster(ctx context.Context, eventID int64, data []byte, ext string) (string, error) {
	if s.ossClient == nil {
		return "", ErrUploadNotAvailable
	}

	if _, err := s.eventRepo.GetByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrEventNotFound
		}
		return "", err
	}

	url, err := s.ossClient.UploadEventPoster(eventID, data, ext)
	if err != nil {
		return "", err
	}

	if err := s.eventRepo.UpdateFields(eventID, map[string]interface{}{"poster_url": url}); err != nil {
		return "", err
	}

	s.invalidateList(ctx)
	return url, nil
}

func (s *EventService) invalidateList(ctx context.Context) {
	if s.listCache == nil {
		return
	}
	if err := s.listCache.Invalidate(ctx, eventListCacheKey); err != nil {
		log.Printf("event list cache invalidate failed: %v", err)
	}
}
