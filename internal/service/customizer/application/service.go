package application

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"caddie/internal/pkg/logger"
	"caddie/internal/service/customizer/domain"
)

// CustomizerService 定义了定制向导提供的所有业务用例。
// 同一会话上的变更通过 per-session 锁串行化，不同会话互不阻塞。
type CustomizerService struct {
	catalog     *domain.Catalog
	sessionRepo domain.SessionRepository
	tracer      trace.Tracer

	locks sync.Map // sessionID -> *sync.Mutex
}

// NewCustomizerService 创建一个新的定制服务实例
func NewCustomizerService(catalog *domain.Catalog, repo domain.SessionRepository, tracer trace.Tracer) *CustomizerService {
	return &CustomizerService{
		catalog:     catalog,
		sessionRepo: repo,
		tracer:      tracer,
	}
}

// GetCatalog 返回套装目录与展示字典
func (s *CustomizerService) GetCatalog(ctx context.Context) *CatalogView {
	_, span := s.tracer.Start(ctx, "service.GetCatalog")
	defer span.End()

	view := &CatalogView{
		Occasions:     domain.Occasions,
		Relationships: domain.Relationships,
	}
	for _, p := range s.catalog.Presets() {
		pv := PresetView{
			Key:              string(p.Key),
			Name:             p.Name,
			Description:      p.Description,
			PriceCents:       p.PriceCents,
			GolfBallQuantity: p.GolfBallQuantity,
			GolfTeeQuantity:  p.GolfTeeQuantity,
		}
		for _, k := range domain.AllItemKeys {
			if p.Includes[k] {
				pv.Includes = append(pv.Includes, string(k))
			}
		}
		view.Presets = append(view.Presets, pv)
	}
	return view
}

// CreateSession 以指定套装新建一个定制会话
func (s *CustomizerService) CreateSession(ctx context.Context, req *CreateSessionRequest) (*SessionView, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateSession")
	defer span.End()

	doc, err := domain.NewDocument(s.catalog, domain.PresetKey(req.Preset))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	now := time.Now()
	session := &domain.Session{
		ID:          uuid.New().String(),
		Document:    doc,
		CurrentStep: domain.StepGiftSet,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("session.id", session.ID),
		attribute.String("giftset.preset", req.Preset),
	)
	logger.Ctx(ctx).Info().
		Str("session_id", session.ID).
		Str("preset", req.Preset).
		Msg("customization session created")

	return s.view(session), nil
}

// GetSession 返回会话快照
func (s *CustomizerService) GetSession(ctx context.Context, id string) (*SessionView, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetSession")
	defer span.End()

	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s.view(session), nil
}

// SelectPreset 切换会话的套装，并在当前步骤失效时就近安置向导光标
func (s *CustomizerService) SelectPreset(ctx context.Context, id string, req *SelectPresetRequest) (*SessionView, error) {
	return s.mutate(ctx, "service.SelectPreset", id, func(session *domain.Session) error {
		if err := session.Document.SelectPreset(s.catalog, domain.PresetKey(req.Preset)); err != nil {
			return err
		}
		session.CurrentStep = domain.NewWizard(session.Document).Relocate(session.CurrentStep)
		return nil
	})
}

// SetRecipient 更新收礼人信息
func (s *CustomizerService) SetRecipient(ctx context.Context, id string, req *SetRecipientRequest) (*SessionView, error) {
	return s.mutate(ctx, "service.SetRecipient", id, func(session *domain.Session) error {
		if req.Name != nil {
			session.Document.SetRecipientName(*req.Name)
		}
		if req.Initials != nil {
			if err := session.Document.SetRecipientInitials(*req.Initials); err != nil {
				return err
			}
		}
		if req.Relationship != nil {
			if err := session.Document.SetRecipientRelationship(*req.Relationship); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetCrest 更新共享纹章配置
func (s *CustomizerService) SetCrest(ctx context.Context, id string, patch domain.CrestPatch) (*SessionView, error) {
	return s.mutate(ctx, "service.SetCrest", id, func(session *domain.Session) error {
		return session.Document.SetCrestConfiguration(patch)
	})
}

// UpdateItem 更新某个单品的个性化配置
func (s *CustomizerService) UpdateItem(ctx context.Context, id string, itemKey string, raw json.RawMessage) (*SessionView, error) {
	patch, err := decodeItemPatch(domain.ItemKey(itemKey), raw)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "service.UpdateItem", id, func(session *domain.Session) error {
		return session.Document.SetLineItemPersonalization(domain.ItemKey(itemKey), patch)
	})
}

// SetGiftOptions 更新礼品附加选项
func (s *CustomizerService) SetGiftOptions(ctx context.Context, id string, patch domain.GiftOptionsPatch) (*SessionView, error) {
	return s.mutate(ctx, "service.SetGiftOptions", id, func(session *domain.Session) error {
		return session.Document.SetGiftOptions(patch)
	})
}

// SetQuantity 更新整单份数
func (s *CustomizerService) SetQuantity(ctx context.Context, id string, req *SetQuantityRequest) (*SessionView, error) {
	return s.mutate(ctx, "service.SetQuantity", id, func(session *domain.Session) error {
		return session.Document.SetQuantity(req.Quantity)
	})
}

// Next 前进到下一个可用步骤
func (s *CustomizerService) Next(ctx context.Context, id string) (*SessionView, error) {
	return s.mutate(ctx, "service.Next", id, func(session *domain.Session) error {
		session.CurrentStep = domain.NewWizard(session.Document).Next(session.CurrentStep)
		return nil
	})
}

// Previous 回退到上一个可用步骤
func (s *CustomizerService) Previous(ctx context.Context, id string) (*SessionView, error) {
	return s.mutate(ctx, "service.Previous", id, func(session *domain.Session) error {
		session.CurrentStep = domain.NewWizard(session.Document).Previous(session.CurrentStep)
		return nil
	})
}

// GotoStep 直接跳转到某个步骤，不可用的步骤被拒绝
func (s *CustomizerService) GotoStep(ctx context.Context, id string, req *GotoStepRequest) (*SessionView, error) {
	step, err := domain.ParseStep(req.Step)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "service.GotoStep", id, func(session *domain.Session) error {
		w := domain.NewWizard(session.Document)
		if !w.IsAvailable(step) {
			return domain.NewStepUnavailableError(req.Step)
		}
		session.CurrentStep = step
		return nil
	})
}

// mutate 加载会话、在 per-session 锁内执行变更并落盘
func (s *CustomizerService) mutate(ctx context.Context, spanName, id string, fn func(*domain.Session) error) (*SessionView, error) {
	ctx, span := s.tracer.Start(ctx, spanName)
	defer span.End()
	span.SetAttributes(attribute.String("session.id", id))

	mu := s.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := fn(session); err != nil {
		span.RecordError(err)
		return nil, err
	}
	session.UpdatedAt = time.Now()
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s.view(session), nil
}

func (s *CustomizerService) sessionLock(id string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *CustomizerService) view(session *domain.Session) *SessionView {
	w := domain.NewWizard(session.Document)
	quote, _ := domain.PriceDocument(s.catalog, session.Document)

	view := &SessionView{
		SessionID:   session.ID,
		Document:    session.Document,
		CurrentStep: session.CurrentStep.String(),
		Quote:       quote,
	}
	for _, step := range allSteps() {
		available := w.IsAvailable(step)
		view.Steps = append(view.Steps, StepView{
			Key:           step.String(),
			DisplayNumber: w.DisplayNumber(step),
			Available:     available,
			Current:       step == session.CurrentStep,
		})
	}
	return view
}

func allSteps() []domain.Step {
	return []domain.Step{
		domain.StepGiftSet,
		domain.StepRecipient,
		domain.StepCrestSetup,
		domain.StepGolfBalls,
		domain.StepGolfTees,
		domain.StepGolfTowel,
		domain.StepDivotTool,
		domain.StepBallMarker,
	}
}

// decodeItemPatch 按单品类型把原始 JSON 解码成对应的补丁结构
func decodeItemPatch(key domain.ItemKey, raw json.RawMessage) (interface{}, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	unmarshal := func(v interface{}) (interface{}, error) {
		if err := json.Unmarshal(raw, v); err != nil {
			return nil, domain.NewPatchDecodeError(string(key), err)
		}
		return v, nil
	}
	switch key {
	case domain.ItemGolfBalls:
		p := domain.BallPatch{}
		if _, err := unmarshal(&p); err != nil {
			return nil, err
		}
		return p, nil
	case domain.ItemGolfTees:
		p := domain.TeePatch{}
		if _, err := unmarshal(&p); err != nil {
			return nil, err
		}
		return p, nil
	case domain.ItemGolfTowel:
		p := domain.TowelPatch{}
		if _, err := unmarshal(&p); err != nil {
			return nil, err
		}
		return p, nil
	case domain.ItemDivotTool, domain.ItemBallMarker:
		p := domain.CrestOnlyPatch{}
		if _, err := unmarshal(&p); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, domain.NewPatchDecodeError(string(key), nil)
}
