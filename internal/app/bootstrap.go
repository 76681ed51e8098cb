package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard/internal/app/activity"
	"taskboard/internal/app/auth"
	"taskboard/internal/app/automation"
	"taskboard/internal/app/board"
	"taskboard/internal/app/card"
	"taskboard/internal/app/column"
	appdirectory "taskboard/internal/app/directory"
	"taskboard/internal/app/health"
	"taskboard/internal/app/label"
	"taskboard/internal/app/notification"
	"taskboard/internal/app/planning"
	"taskboard/internal/app/recurrence"
	"taskboard/internal/app/timeentry"
	"taskboard/internal/app/user"
	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/db/seeder"
	"taskboard/internal/gateways/websocket"
	"taskboard/internal/policy"
	"taskboard/internal/providers/directory"
	"taskboard/internal/providers/minio"
	"taskboard/internal/providers/redis"
	"taskboard/internal/router"
	"taskboard/internal/utils"
)

type Application struct {
	Router *router.Router
	DB     *gorm.DB
}

func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		return nil, err
	}

	seed := seeder.NewSeeder(dbConn, cfg, logger)
	if err := seed.Seed(); err != nil {
		logger.Warn("Failed to run seeders", zap.Error(err))
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)
	minioProvider, err := minio.NewMinioProvider(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize MinIO provider", zap.Error(err))
		minioProvider = nil
	}

	eventBus := utils.NewEventBus(logger)
	go eventBus.Run()

	userRepo := user.NewRepository(dbConn)
	boardRepo := board.NewRepository(dbConn)
	columnRepo := column.NewRepository(dbConn)
	cardRepo := card.NewRepository(dbConn)
	labelRepo := label.NewRepository(dbConn)
	activityRepo := activity.NewRepository(dbConn)
	timeEntryRepo := timeentry.NewRepository(dbConn)
	notificationRepo := notification.NewRepository(dbConn)
	automationRepo := automation.NewRepository(dbConn)
	planningRepo := planning.NewRepository(dbConn)

	userService := user.NewService(userRepo, logger)
	authService := auth.NewService(userRepo, cfg.JWTSecret, cfg.JWTTTL, logger)
	boardService := board.NewService(boardRepo, userRepo, redisProvider, logger)
	columnService := column.NewService(columnRepo, boardService, logger)
	labelService := label.NewService(labelRepo)
	activityService := activity.NewService(activityRepo, logger)
	cardService := card.NewService(cardRepo, boardService, columnService, labelRepo, activityService, minioProvider, redisProvider, eventBus, logger)
	timeEntryService := timeentry.NewService(timeEntryRepo, cardRepo, boardService, logger)
	notificationService := notification.NewService(notificationRepo, boardMembersResolver{repo: boardRepo}, redisProvider, eventBus, logger)
	automationService := automation.NewService(automationRepo, boardService, logger)
	planningService := planning.NewService(planningRepo, boardService, logger)

	// The people directory merges the local user table with any HTTP sources
	// configured via DIRECTORY_SOURCES.
	sources := []directory.Source{user.NewDirectorySource(userRepo)}
	for i, baseURL := range cfg.DirectorySources {
		sources = append(sources, directory.NewHTTPSource(fmt.Sprintf("http-%d", i), baseURL, cfg.DirectoryTimeout))
	}
	directoryProvider := directory.NewProvider(logger, sources...)

	evaluator := automation.NewEvaluator(
		automationRepo,
		cardFactSource{repo: cardRepo},
		cardActionsAdapter{svc: cardService},
		notifierAdapter{svc: notificationService},
		logger,
	)
	subscribeAutomation(eventBus, evaluator)
	subscribeDueSoonNotifications(eventBus, notificationService, logger)

	hub := websocket.NewHub(logger)
	hub.SubscribeNotifications(eventBus)
	go hub.Run()

	scheduler := recurrence.NewScheduler(cardService, cfg.RecurrenceEvery, cfg.DueSoonWindow, logger)
	go scheduler.Run(context.Background())

	checker := &utils.HealthChecker{DB: dbConn}
	if redisProvider != nil {
		checker.Redis = redisProvider.Client
	}
	if minioProvider != nil {
		checker.Minio = minioProvider.Client
	}

	r := router.NewRouter(logger, cfg.JWTSecret)
	r.RegisterAuthRoutes(auth.NewHandler(authService))
	r.RegisterHealthRoutes(health.NewHandler(checker))
	r.RegisterWebSocketRoutes(hub, cfg.JWTSecret)
	r.RegisterUserRoutes(user.NewHandler(userService))
	r.RegisterBoardRoutes(board.NewHandler(boardService))
	r.RegisterColumnRoutes(column.NewHandler(columnService))
	r.RegisterCardRoutes(card.NewHandler(cardService))
	r.RegisterLabelRoutes(label.NewHandler(labelService))
	r.RegisterActivityRoutes(activity.NewHandler(activityService))
	r.RegisterTimeEntryRoutes(timeentry.NewHandler(timeEntryService))
	r.RegisterNotificationRoutes(notification.NewHandler(notificationService))
	r.RegisterAutomationRoutes(automation.NewHandler(automationService))
	r.RegisterPlanningRoutes(planning.NewHandler(planningService))
	r.RegisterDirectoryRoutes(appdirectory.NewHandler(directoryProvider))

	return &Application{Router: r, DB: dbConn}, nil
}

func subscribeAutomation(bus *utils.EventBus, evaluator *automation.Evaluator) {
	triggers := []string{
		automation.TriggerCardCreated,
		automation.TriggerCardMoved,
		automation.TriggerCardUpdated,
		automation.TriggerCardCompleted,
		automation.TriggerCardDueSoon,
	}
	for _, trigger := range triggers {
		bus.Subscribe(trigger, func(e utils.Event) {
			cardID, ok1 := eventUint(e.Data, "card_id")
			boardID, ok2 := eventUint(e.Data, "board_id")
			actorID, _ := eventUint(e.Data, "actor_id")
			if !ok1 || !ok2 {
				return
			}
			evaluator.HandleEvent(e.Event, cardID, boardID, actorID)
		})
	}
}

func subscribeDueSoonNotifications(bus *utils.EventBus, svc notification.Service, logger *zap.Logger) {
	log := logger.Sugar()
	bus.Subscribe("card_due_soon", func(e utils.Event) {
		cardID, ok1 := eventUint(e.Data, "card_id")
		boardID, ok2 := eventUint(e.Data, "board_id")
		if !ok1 || !ok2 {
			return
		}
		title, _ := e.Data["title"].(string)
		err := svc.NotifyBoardMembers(boardID, 0, notification.Draft{
			Type:    notification.TypeCardDueSoon,
			Title:   fmt.Sprintf("%q is due soon", title),
			BoardID: &boardID,
			CardID:  &cardID,
		})
		if err != nil {
			log.Warnw("Due-soon fan-out incomplete", "card_id", cardID, "error", err)
		}
	})
}

func eventUint(data map[string]interface{}, key string) (uint64, bool) {
	switch v := data[key].(type) {
	case uint64:
		return v, true
	case int:
		return uint64(v), true
	case float64:
		return uint64(v), true
	default:
		return 0, false
	}
}

// boardMembersResolver reads the member list at dispatch time.
type boardMembersResolver struct {
	repo board.Repository
}

func (r boardMembersResolver) ResolveMembers(boardID uint64) ([]uint64, error) {
	return r.repo.MemberIDs(boardID)
}

// cardFactSource snapshots the card fields rule conditions compare against.
type cardFactSource struct {
	repo card.Repository
}

func (f cardFactSource) CardFacts(cardID uint64) (map[string]string, error) {
	c, err := f.repo.GetCardByID(cardID)
	if err != nil {
		return nil, err
	}
	facts := map[string]string{
		"title":           c.Title,
		"description":     c.Description,
		"priority":        c.Priority,
		"column_id":       strconv.FormatUint(c.ColumnID, 10),
		"estimated_hours": strconv.FormatFloat(c.EstimatedHours, 'f', -1, 64),
		"actual_hours":    strconv.FormatFloat(c.ActualHours, 'f', -1, 64),
	}
	if c.DueDate != nil {
		facts["due_date"] = c.DueDate.Format("2006-01-02")
	}
	if c.CompletedAt != nil {
		facts["completed"] = "true"
	} else {
		facts["completed"] = "false"
	}
	labels := ""
	for i, l := range c.Labels {
		if i > 0 {
			labels += ","
		}
		labels += l.Name
	}
	facts["labels"] = labels
	return facts, nil
}

// cardActionsAdapter funnels rule actions through the card service so the
// usual invariants, activity entries and cache invalidation apply. The
// triggering user is the acting identity.
type cardActionsAdapter struct {
	svc card.Service
}

func actorIdentity(userID uint64) policy.Identity {
	return policy.Identity{UserID: userID, Role: policy.RoleUser}
}

func (a cardActionsAdapter) MoveCard(actorID, cardID, columnID uint64) error {
	_, err := a.svc.MoveCard(actorIdentity(actorID), cardID, card.MoveCardRequest{
		ColumnID: columnID,
		Index:    int(^uint(0) >> 1),
	})
	return err
}

func (a cardActionsAdapter) SetPriority(actorID, cardID uint64, priority string) error {
	_, err := a.svc.UpdateCard(actorIdentity(actorID), cardID, card.UpdateCardRequest{Priority: &priority})
	return err
}

func (a cardActionsAdapter) SetDueDate(actorID, cardID uint64, due time.Time) error {
	_, err := a.svc.UpdateCard(actorIdentity(actorID), cardID, card.UpdateCardRequest{DueDate: &due})
	return err
}

func (a cardActionsAdapter) AssignMember(actorID, cardID, userID uint64) error {
	return a.svc.AddMember(actorIdentity(actorID), cardID, userID)
}

func (a cardActionsAdapter) AddLabel(actorID, cardID, labelID uint64) error {
	return a.svc.AddLabel(actorIdentity(actorID), cardID, labelID)
}

func (a cardActionsAdapter) CompleteCard(actorID, cardID uint64) error {
	_, err := a.svc.CompleteCard(actorIdentity(actorID), cardID)
	return err
}

type notifierAdapter struct {
	svc notification.Service
}

func (n notifierAdapter) NotifyBoard(boardID, excludeUserID, cardID uint64, title, message string) error {
	return n.svc.NotifyBoardMembers(boardID, excludeUserID, notification.Draft{
		Type:    notification.TypeAutomation,
		Title:   title,
		Message: message,
		BoardID: &boardID,
		CardID:  &cardID,
	})
}

func (n notifierAdapter) NotifyUser(userID, cardID uint64, title, message string) error {
	_, err := n.svc.NotifyUser(userID, notification.Draft{
		Type:    notification.TypeAutomation,
		Title:   title,
		Message: message,
		CardID:  &cardID,
	})
	return err
}
