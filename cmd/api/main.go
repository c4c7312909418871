package main

import (
	"context"
	"log"

	"github.com/jjtjtyt6644/studify/internal/api"
	"github.com/jjtjtyt6644/studify/internal/notify"
	"github.com/jjtjtyt6644/studify/internal/repository"
	"github.com/jjtjtyt6644/studify/internal/service"
	"github.com/jjtjtyt6644/studify/pkg/cleanup"
	"github.com/jjtjtyt6644/studify/pkg/config"
	jwtservice "github.com/jjtjtyt6644/studify/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	kvRepo := repository.NewKVRepo(&dbCfg)
	roomsRepo := repository.NewRoomsRepo(cfg.GetString("REDIS_ADDRESS"))

	scheduler := notify.NewLocalScheduler(nil)
	cleanup.Register(&cleanup.Job{
		Name: "cancelling pending notifications",
		F:    scheduler.CancelAll,
	})

	coinsService := service.NewCoinsService(kvRepo)
	settingsService := service.NewSettingsService(kvRepo)
	statsService := service.NewStatsService(kvRepo, settingsService)
	timerService := service.NewTimerService(kvRepo, coinsService, statsService, settingsService, scheduler)
	homeworkService := service.NewHomeworkService(kvRepo, coinsService, scheduler)
	roomsService := service.NewRoomsService(roomsRepo)
	shopService := service.NewShopService(kvRepo, coinsService)
	petService := service.NewPetService(kvRepo, statsService, coinsService)
	chatService := service.NewChatService(cfg.GetString("GROQ_API_URL"), cfg.GetString("GROQ_API_KEY"))

	// Pick up a countdown that was running when the process last stopped
	err := timerService.Restore(context.Background())
	if err != nil {
		log.Println("restoring timer error: " + err.Error())
	}

	serv := api.New(&api.ServicesList{
		CoinsService:    coinsService,
		TimerService:    timerService,
		HomeworkService: homeworkService,
		SettingsService: settingsService,
		StatsService:    statsService,
		RoomsService:    roomsService,
		ShopService:     shopService,
		PetService:      petService,
		ChatService:     chatService,
		JwtService:      jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err = serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
	cleanup.CleanUp()
}
