package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	errorvalues "github.com/jjtjtyt6644/studify/internal/error_values"
	"github.com/jjtjtyt6644/studify/internal/service"
	"github.com/jjtjtyt6644/studify/pkg/entity"
	"github.com/jjtjtyt6644/studify/pkg/httputil"
)

type CreateIdentityRequest struct {
	Name string `json:"name"`
}

type SaveHomeworkRequest struct {
	Title    string    `json:"title"`
	Subject  string    `json:"subject"`
	DueDate  time.Time `json:"due_date"`
	Priority string    `json:"priority"`
	Notes    string    `json:"notes"`
}

type UpdateSettingsRequest struct {
	WorkMinutes      int `json:"work_minutes"`
	BreakMinutes     int `json:"break_minutes"`
	LongBreakMinutes int `json:"long_break_minutes"`
}

type PurchaseRequest struct {
	ItemID string `json:"item_id"`
}

type ChatRequest struct {
	History []entity.ChatMessage `json:"history"`
	Text    string               `json:"text"`
}

type StatsResponse struct {
	CompletedSessions int            `json:"completed_sessions"`
	TodaySessions     int            `json:"today_sessions"`
	Streak            int            `json:"streak"`
	TotalStudyMinutes int            `json:"total_study_minutes"`
	AppMinutesToday   int            `json:"app_minutes_today"`
	CalendarSessions  map[string]int `json:"calendar_sessions"`
}

func (s *Server) CreateIdentity(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req CreateIdentityRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Name == "" {
		logger.Error("creating identity error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	deviceID := uuid.New().String()
	token, err := s.jwtService.GenerateToken(deviceID, req.Name)
	if err != nil {
		logger.Error("creating identity error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"device_id": deviceID,
		"name":      req.Name,
		"token":     token,
	})
	logger.Info("identity created")
}

func (s *Server) GetBalance(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	balance, err := s.coinsService.Balance(ctx)
	if err != nil {
		logger.Error("getting balance error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error reading balance", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"balance": balance,
	})
}

func (s *Server) GetCoinHistory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	history, err := s.coinsService.History(ctx)
	if err != nil {
		logger.Error("getting coin history error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error reading history", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"history": history,
	})
}

func (s *Server) GetTimerState(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	httputil.WriteJSONResponse(w, http.StatusOK, s.timerService.State(ctx))
}

func (s *Server) StartTimer(w http.ResponseWriter, r *http.Request) {
	s.timerTransition(w, r, "start", s.timerService.Start)
}

func (s *Server) PauseTimer(w http.ResponseWriter, r *http.Request) {
	s.timerTransition(w, r, "pause", s.timerService.Pause)
}

func (s *Server) ResumeTimer(w http.ResponseWriter, r *http.Request) {
	s.timerTransition(w, r, "resume", s.timerService.Resume)
}

func (s *Server) ResetTimer(w http.ResponseWriter, r *http.Request) {
	s.timerTransition(w, r, "reset", s.timerService.Reset)
}

func (s *Server) timerTransition(w http.ResponseWriter, r *http.Request, name string, transition func(context.Context) error) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err := transition(ctx)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrTimerNotRunning), errors.Is(err, errorvalues.ErrTimerNotPaused):
			logger.Error("timer " + name + " error: wrong state")
			httputil.WriteErrorResponse(w, http.StatusConflict, err.Error(), nil)
		default:
			logger.Error("timer "+name+" error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal timer error", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, s.timerService.State(ctx))
	logger.Info("timer " + name)
}

func (s *Server) ListHomeworks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	var (
		items []entity.Homework
		err   error
	)
	switch r.URL.Query().Get("filter") {
	case "pending":
		items, err = s.homeworkService.Pending(ctx)
	case "overdue":
		items, err = s.homeworkService.Overdue(ctx)
	default:
		items, err = s.homeworkService.List(ctx)
	}
	if err != nil {
		logger.Error("listing homeworks error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error listing homeworks", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"homeworks": items,
	})
}

func (s *Server) AddHomework(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req SaveHomeworkRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("adding homework error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	item, err := s.homeworkService.Add(ctx, &service.SaveHomeworkRequest{
		Title:    req.Title,
		Subject:  req.Subject,
		DueDate:  req.DueDate,
		Priority: req.Priority,
		Notes:    req.Notes,
	})
	if err != nil {
		logger.Error("adding homework error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "couldn't add homework", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, item)
	logger.Info("homework added")
}

func (s *Server) UpdateHomework(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Error("updating homework error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid homework id", nil)
		return
	}
	var req SaveHomeworkRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("updating homework error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	item, err := s.homeworkService.Update(ctx, id, &service.SaveHomeworkRequest{
		Title:    req.Title,
		Subject:  req.Subject,
		DueDate:  req.DueDate,
		Priority: req.Priority,
		Notes:    req.Notes,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrHomeworkNotFound) {
			logger.Error("updating homework error: not found")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "homework doesn't exist", nil)
			return
		}
		logger.Error("updating homework error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "couldn't update homework", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, item)
	logger.Info("homework updated")
}

func (s *Server) ToggleHomework(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Error("toggling homework error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid homework id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	item, err := s.homeworkService.ToggleComplete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHomeworkNotFound) {
			logger.Error("toggling homework error: not found")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "homework doesn't exist", nil)
			return
		}
		logger.Error("toggling homework error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error toggling homework", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, item)
	logger.Info("homework toggled")
}

func (s *Server) DeleteHomework(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Error("deleting homework error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid homework id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.homeworkService.Remove(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHomeworkNotFound) {
			logger.Error("deleting homework error: not found")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "homework doesn't exist", nil)
			return
		}
		logger.Error("deleting homework error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error deleting homework", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusNoContent, nil)
	logger.Info("homework deleted")
}

func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	settings, err := s.settingsService.Get(ctx)
	if err != nil {
		logger.Error("getting settings error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error reading settings", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, settings)
}

func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req UpdateSettingsRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("updating settings error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.settingsService.Update(ctx, &service.UpdateSettingsRequest{
		WorkMinutes:      req.WorkMinutes,
		BreakMinutes:     req.BreakMinutes,
		LongBreakMinutes: req.LongBreakMinutes,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrInvalidSettings) {
			logger.Error("updating settings error: values out of range")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "work time must be 1-120 minutes, break times 1-60 minutes", nil)
			return
		}
		logger.Error("updating settings error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error saving settings", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"message": "settings saved",
	})
	logger.Info("settings updated")
}

func (s *Server) ResetSettings(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err := s.settingsService.Reset(ctx)
	if err != nil {
		logger.Error("resetting settings error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error resetting settings", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"message": "settings reset to defaults",
	})
	logger.Info("settings reset")
}

func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	var (
		resp StatsResponse
		err  error
	)
	resp.CompletedSessions, err = s.statsService.CompletedSessions(ctx)
	if err == nil {
		resp.TodaySessions, err = s.statsService.TodaySessions(ctx)
	}
	if err == nil {
		resp.Streak, err = s.statsService.Streak(ctx)
	}
	if err == nil {
		resp.TotalStudyMinutes, err = s.statsService.TotalStudyMinutes(ctx)
	}
	if err == nil {
		resp.AppMinutesToday, err = s.statsService.AppTimeToday(ctx)
	}
	if err == nil {
		resp.CalendarSessions, err = s.statsService.CalendarSessions(ctx)
	}
	if err != nil {
		logger.Error("getting stats error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error reading statistics", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, resp)
}

func (s *Server) ListShopItems(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"items": s.shopService.Items(),
	})
}

func (s *Server) ListOwnedItems(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	owned, err := s.shopService.Owned(ctx)
	if err != nil {
		logger.Error("listing owned items error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error reading owned items", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"owned": owned,
	})
}

func (s *Server) PurchaseItem(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req PurchaseRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("purchase error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.shopService.Purchase(ctx, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrItemNotFound):
			logger.Error("purchase error: unknown item")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "shop item doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrItemOwned):
			logger.Error("purchase error: already owned")
			httputil.WriteErrorResponse(w, http.StatusConflict, "item already owned", nil)
		case errors.Is(err, errorvalues.ErrInsufficientFunds):
			logger.Error("purchase error: not enough coins")
			httputil.WriteErrorResponse(w, http.StatusPaymentRequired, "not enough coins", nil)
		default:
			logger.Error("purchase error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during purchase", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"message": "item purchased",
	})
	logger.Info("item purchased")
}

func (s *Server) GetPet(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	pet, err := s.petService.Get(ctx)
	if err != nil {
		logger.Error("getting pet error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error reading pet", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, pet)
}

func (s *Server) SyncPet(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	pet, err := s.petService.Sync(ctx)
	if err != nil {
		logger.Error("syncing pet error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error syncing pet", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, pet)
}

func (s *Server) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req ChatRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Text == "" {
		logger.Error("chat error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "message text is required", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()
	reply := s.chatService.SendMessage(ctx, req.History, req.Text)
	httputil.WriteJSONResponse(w, http.StatusOK, reply)
	logger.Info("chat message handled")
}

func (s *Server) CreateRoom(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	device, err := GetDeviceFromContext(r)
	if err != nil {
		logger.Error("creating room error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	room, err := s.roomsService.Create(ctx, device.ID, device.Name)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrNameRequired):
			logger.Error("creating room error: empty name")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "name is required", nil)
		case errors.Is(err, errorvalues.ErrRoomCodeTaken):
			logger.Error("creating room error: couldn't find free code")
			httputil.WriteErrorResponse(w, http.StatusConflict, "couldn't allocate a room code, try again", nil)
		default:
			logger.Error("creating room error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error creating room", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, room)
	logger.Info("room created", slog.String("code", room.Code))
}

func (s *Server) GetRoom(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	room, err := s.roomsService.Get(ctx, chi.URLParam(r, "code"))
	if err != nil {
		s.writeRoomError(w, logger, "getting room", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, room)
}

func (s *Server) JoinRoom(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	device, err := GetDeviceFromContext(r)
	if err != nil {
		logger.Error("joining room error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	room, err := s.roomsService.Join(ctx, chi.URLParam(r, "code"), device.ID, device.Name)
	if err != nil {
		s.writeRoomError(w, logger, "joining room", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, room)
	logger.Info("room joined", slog.String("code", room.Code))
}

func (s *Server) LeaveRoom(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	device, err := GetDeviceFromContext(r)
	if err != nil {
		logger.Error("leaving room error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.roomsService.Leave(ctx, chi.URLParam(r, "code"), device.ID)
	if err != nil {
		s.writeRoomError(w, logger, "leaving room", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusNoContent, nil)
	logger.Info("room left")
}

func (s *Server) TickRoom(w http.ResponseWriter, r *http.Request) {
	s.roomMutation(w, r, "ticking study time", s.roomsService.TickStudyTime)
}

func (s *Server) ToggleRoomBreak(w http.ResponseWriter, r *http.Request) {
	s.roomMutation(w, r, "toggling break", s.roomsService.ToggleBreak)
}

func (s *Server) ToggleRoomPause(w http.ResponseWriter, r *http.Request) {
	s.roomMutation(w, r, "toggling pause", s.roomsService.TogglePause)
}

func (s *Server) StartRoomStudying(w http.ResponseWriter, r *http.Request) {
	s.roomMutation(w, r, "starting studying", s.roomsService.StartStudying)
}

func (s *Server) StreamRoom(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error("streaming room error: response writer can't flush")
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "streaming unsupported", nil)
		return
	}
	updates, teardown, err := s.roomsService.Watch(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		logger.Error("streaming room error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "couldn't subscribe to room", nil)
		return
	}
	defer teardown()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	for {
		select {
		case <-r.Context().Done():
			return
		case room, open := <-updates:
			if !open {
				return
			}
			if room == nil {
				fmt.Fprint(w, "event: deleted\ndata: null\n\n")
				flusher.Flush()
				return
			}
			payload, err := sonic.ConfigDefault.MarshalToString(room)
			if err != nil {
				logger.Error("streaming room error: marshalling update", slog.String("error", err.Error()))
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (s *Server) roomMutation(w http.ResponseWriter, r *http.Request, name string, mutate func(context.Context, string, string) (*entity.StudyRoom, error)) {
	logger := GetLoggerFromCtx(r.Context())
	device, err := GetDeviceFromContext(r)
	if err != nil {
		logger.Error(name + " error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	room, err := mutate(ctx, chi.URLParam(r, "code"), device.ID)
	if err != nil {
		s.writeRoomError(w, logger, name, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, room)
}

func (s *Server) writeRoomError(w http.ResponseWriter, logger *slog.Logger, action string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrRoomNotFound):
		logger.Error(action + " error: room not found")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "room doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrMemberNotFound):
		logger.Error(action + " error: member not in room")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "member is not in the room", nil)
	case errors.Is(err, errorvalues.ErrNameRequired):
		logger.Error(action + " error: empty name")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "name is required", nil)
	default:
		logger.Error(action+" error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal room error", nil)
	}
}
