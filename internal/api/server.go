package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jjtjtyt6644/studify/internal/service"
)

type Server struct {
	mx              *chi.Mux
	coinsService    service.CoinsServiceI
	timerService    service.TimerServiceI
	homeworkService service.HomeworkServiceI
	settingsService service.SettingsServiceI
	statsService    service.StatsServiceI
	roomsService    service.RoomsServiceI
	shopService     service.ShopServiceI
	petService      service.PetServiceI
	chatService     service.ChatServiceI
	jwtService      JWTServiceI
}

type ServicesList struct {
	CoinsService    service.CoinsServiceI
	TimerService    service.TimerServiceI
	HomeworkService service.HomeworkServiceI
	SettingsService service.SettingsServiceI
	StatsService    service.StatsServiceI
	RoomsService    service.RoomsServiceI
	ShopService     service.ShopServiceI
	PetService      service.PetServiceI
	ChatService     service.ChatServiceI
	JwtService      JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:              chi.NewMux(),
		coinsService:    servicesOptions.CoinsService,
		timerService:    servicesOptions.TimerService,
		homeworkService: servicesOptions.HomeworkService,
		settingsService: servicesOptions.SettingsService,
		statsService:    servicesOptions.StatsService,
		roomsService:    servicesOptions.RoomsService,
		shopService:     servicesOptions.ShopService,
		petService:      servicesOptions.PetService,
		chatService:     servicesOptions.ChatService,
		jwtService:      servicesOptions.JwtService,
	}
}

func (s *Server) Run(address string) error {
	s.routes()
	return http.ListenAndServe(address, s.mx)
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/identity", s.CreateIdentity)

		r.Get("/coins", s.GetBalance)
		r.Get("/coins/history", s.GetCoinHistory)

		r.Get("/timer", s.GetTimerState)
		r.Post("/timer/start", s.StartTimer)
		r.Post("/timer/pause", s.PauseTimer)
		r.Post("/timer/resume", s.ResumeTimer)
		r.Post("/timer/reset", s.ResetTimer)

		r.Get("/homeworks", s.ListHomeworks)
		r.Post("/homeworks", s.AddHomework)
		r.Put("/homeworks/{id}", s.UpdateHomework)
		r.Delete("/homeworks/{id}", s.DeleteHomework)
		r.Post("/homeworks/{id}/toggle", s.ToggleHomework)

		r.Get("/settings", s.GetSettings)
		r.Put("/settings", s.UpdateSettings)
		r.Post("/settings/reset", s.ResetSettings)

		r.Get("/stats", s.GetStats)

		r.Get("/shop/items", s.ListShopItems)
		r.Get("/shop/owned", s.ListOwnedItems)
		r.Post("/shop/purchase", s.PurchaseItem)

		r.Get("/pet", s.GetPet)
		r.Post("/pet/sync", s.SyncPet)

		r.Post("/chat", s.SendChatMessage)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)
			r.Post("/rooms", s.CreateRoom)
			r.Get("/rooms/{code}", s.GetRoom)
			r.Get("/rooms/{code}/events", s.StreamRoom)
			r.Post("/rooms/{code}/join", s.JoinRoom)
			r.Post("/rooms/{code}/leave", s.LeaveRoom)
			r.Post("/rooms/{code}/tick", s.TickRoom)
			r.Post("/rooms/{code}/break", s.ToggleRoomBreak)
			r.Post("/rooms/{code}/pause", s.ToggleRoomPause)
			r.Post("/rooms/{code}/study", s.StartRoomStudying)
		})
	})
}
