package wire

import (
	"Inkwell/internal/api"
	"Inkwell/internal/api/config"
	"Inkwell/internal/api/handler"
	"Inkwell/internal/job"
	"Inkwell/internal/pkg/cron"
	"Inkwell/internal/pkg/kafka"
	"Inkwell/internal/pkg/moderation"
	"Inkwell/internal/repository"
	"Inkwell/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// ApplicationContainer holds the top-level components main runs.
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager // nil when kafka is disabled
}

// BuildApplication assembles repositories, services and handlers. checker screens every
// post and comment before it is stored.
func BuildApplication(db *gorm.DB, cfg *config.Config, checker moderation.Checker, gatherer prometheus.Gatherer) (*ApplicationContainer, error) {
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	actionRepo := repository.NewPostActionRepo(db)
	metricRepo := repository.NewPostMetricRepository(db)
	tagRepo := repository.NewTagRepository(db)
	userRepo := repository.NewUserRepo(db)
	interestRepo := repository.NewUserInterestRepository(db)

	statsTTL := time.Duration(cfg.Feed.CommentStatsTTLMin) * time.Minute
	statsService := service.NewPostStatsService(metricRepo, actionRepo, statsTTL)
	interestService := service.NewInterestService(interestRepo, actionRepo)
	feedService := service.NewFeedService(postRepo, userRepo, interestService, statsService, cfg.Feed)
	postService := service.NewPostService(postRepo, actionRepo, statsService, checker)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, actionRepo, statsService, checker)
	actionService := service.NewPostActionService(actionRepo, postRepo, statsService)
	exploreService := service.NewExploreService(tagRepo, cfg.Feed.ExploreTagLimit)
	userService := service.NewUserService(userRepo, interestRepo)

	handlers := &api.HandlersGroup{
		PostHandler:       handler.NewPostHandler(postService, feedService),
		PostActionHandler: handler.NewPostActionHandler(actionService),
		CommentHandler:    handler.NewCommentHandler(commentService),
		ExploreHandler:    handler.NewExploreHandler(exploreService),
		UserHandler:       handler.NewUserHandler(userService),
	}

	router := api.SetupRouter(handlers, gatherer)

	cronMgr := cron.NewCronManager(cfg.Cron, job.NewTrendingTagsJob(exploreService))

	var kafkaMgr *kafka.ConsumerManager
	if cfg.Kafka.Enable {
		var err error
		kafkaMgr, err = kafka.NewConsumerManager(cfg, service.CommentStatsKey)
		if err != nil {
			return nil, err
		}
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		CronMgr:      cronMgr,
		KafkaManager: kafkaMgr,
	}, nil
}
