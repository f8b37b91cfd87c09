package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/config"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/reports"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/requests"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/shifts"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Service is the administrator-facing REST surface. Authentication is
// delegated to the deployment (the X-Admin-ID header identifies the
// reviewer for audit fields).
type Service struct {
	config   *config.Config
	storage  *storage.Storage
	shifts   *shifts.Service
	requests *requests.Service
	reports  *reports.Service
}

func NewService(cfg *config.Config, store *storage.Storage, shiftSvc *shifts.Service, requestSvc *requests.Service, reportSvc *reports.Service) *Service {
	return &Service{
		config:   cfg,
		storage:  store,
		shifts:   shiftSvc,
		requests: requestSvc,
		reports:  reportSvc,
	}
}

func (s *Service) Register(e *echo.Echo) {
	e.POST("/shifts", s.HandleCreateShift())
	e.GET("/shifts", s.HandleListShifts())
	e.GET("/shifts/:id", s.HandleGetShift())
	e.POST("/shifts/:id/start", s.HandleShiftTransition(s.shifts.Start))
	e.POST("/shifts/:id/finish", s.HandleShiftTransition(s.shifts.Finish))
	e.POST("/shifts/:id/cancel", s.HandleShiftTransition(s.shifts.Cancel))
	e.GET("/shifts/:id/members", s.HandleListMembers())
	e.GET("/shifts/:id/requests", s.HandleListRequests())
	e.GET("/shifts/:id/reports/reviewing", s.HandleListReviewing())

	e.POST("/requests/:id/approve", s.HandleApproveRequest())
	e.POST("/requests/:id/decline", s.HandleDeclineRequest())

	e.GET("/reports/:id", s.HandleGetReport())
	e.POST("/reports/:id/approve", s.HandleReviewReport(s.reports.Approve))
	e.POST("/reports/:id/decline", s.HandleReviewReport(s.reports.Decline))

	e.POST("/tasks", s.HandleCreateTask())
	e.GET("/tasks", s.HandleListTasks())
	e.PATCH("/tasks/:id", s.HandleUpdateTask())

	e.GET("/administrators", s.HandleListAdministrators())
	e.POST("/invitations", s.HandleCreateInvitation())
	e.POST("/invitations/:token/accept", s.HandleAcceptInvitation())
}

type createShiftRequest struct {
	Title        string `json:"title"`
	FinalMessage string `json:"final_message"`
	StartedAt    string `json:"started_at"`
	FinishedAt   string `json:"finished_at"`
}

func (s *Service) HandleCreateShift() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createShiftRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}

		startedAt, err := time.Parse(time.DateOnly, req.StartedAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "started_at must be YYYY-MM-DD"})
		}
		finishedAt, err := time.Parse(time.DateOnly, req.FinishedAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "finished_at must be YYYY-MM-DD"})
		}

		shift, err := s.shifts.Create(c.Request().Context(), req.Title, req.FinalMessage, startedAt, finishedAt)
		if err != nil {
			logrus.Errorf("failed to create shift: %v", err)
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, shift)
	}
}

func (s *Service) HandleListShifts() echo.HandlerFunc {
	return func(c echo.Context) error {
		shifts, err := s.shifts.List(c.Request().Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, shifts)
	}
}

func (s *Service) HandleGetShift() echo.HandlerFunc {
	return func(c echo.Context) error {
		shift, err := s.shifts.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, shift)
	}
}

func (s *Service) HandleShiftTransition(op func(ctx context.Context, shiftID string) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := op(c.Request().Context(), c.Param("id")); err != nil {
			logrus.Errorf("shift transition failed: %v", err)
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func (s *Service) HandleListMembers() echo.HandlerFunc {
	return func(c echo.Context) error {
		members, err := s.storage.GetMembersForShift(c.Request().Context(), c.Param("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, members)
	}
}

func (s *Service) HandleListRequests() echo.HandlerFunc {
	return func(c echo.Context) error {
		status := models.RequestStatus(c.QueryParam("status"))
		result, err := s.requests.ListForShift(c.Request().Context(), c.Param("id"), status)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, result)
	}
}

func (s *Service) HandleApproveRequest() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.requests.Approve(c.Request().Context(), c.Param("id")); err != nil {
			logrus.Errorf("failed to approve request: %v", err)
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func (s *Service) HandleDeclineRequest() echo.HandlerFunc {
	return func(c echo.Context) error {
		var body struct {
			Reason string `json:"reason"`
		}
		if err := c.Bind(&body); err != nil && err != echo.ErrUnsupportedMediaType {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}

		if err := s.requests.Decline(c.Request().Context(), c.Param("id"), body.Reason); err != nil {
			logrus.Errorf("failed to decline request: %v", err)
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func (s *Service) HandleGetReport() echo.HandlerFunc {
	return func(c echo.Context) error {
		report, err := s.reports.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, report)
	}
}

func (s *Service) HandleListReviewing() echo.HandlerFunc {
	return func(c echo.Context) error {
		result, err := s.reports.ListReviewing(c.Request().Context(), c.Param("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, result)
	}
}

func (s *Service) HandleReviewReport(op func(ctx context.Context, reportID, adminID string) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		adminID := c.Request().Header.Get("X-Admin-ID")
		if adminID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Admin-ID header is required"})
		}

		if err := op(c.Request().Context(), c.Param("id"), adminID); err != nil {
			logrus.Errorf("report review failed: %v", err)
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

type taskRequest struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (s *Service) HandleCreateTask() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req taskRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		if req.Description == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "description is required"})
		}

		task := &models.Task{URL: req.URL, Description: req.Description}
		if err := s.storage.CreateTask(c.Request().Context(), task); err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, task)
	}
}

func (s *Service) HandleListTasks() echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks, err := s.storage.ListTasks(c.Request().Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, tasks)
	}
}

func (s *Service) HandleUpdateTask() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req taskRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}

		if err := s.storage.UpdateTask(c.Request().Context(), c.Param("id"), req.URL, req.Description); err != nil {
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func (s *Service) HandleListAdministrators() echo.HandlerFunc {
	return func(c echo.Context) error {
		admins, err := s.storage.ListAdministrators(c.Request().Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, admins)
	}
}

type invitationRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

func (s *Service) HandleCreateInvitation() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req invitationRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		if req.Email == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
		}

		inv := &models.Invitation{
			Email:     req.Email,
			Name:      req.Name,
			Surname:   req.Surname,
			ExpiresAt: time.Now().Add(s.config.InvitationTTL),
		}
		if err := s.storage.CreateInvitation(c.Request().Context(), inv); err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, inv)
	}
}

func (s *Service) HandleAcceptInvitation() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		inv, err := s.storage.GetInvitation(ctx, c.Param("token"))
		if err != nil {
			return writeError(c, err)
		}
		if inv.Used || inv.Expired(time.Now()) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "invitation is no longer valid"})
		}

		ok, err := s.storage.MarkInvitationUsed(ctx, inv.Token)
		if err != nil {
			return writeError(c, err)
		}
		if !ok {
			return c.JSON(http.StatusConflict, echo.Map{"error": "invitation is no longer valid"})
		}

		admin := &models.Administrator{
			Name:    inv.Name,
			Surname: inv.Surname,
			Email:   inv.Email,
			Role:    models.AdminRoleExpert,
			Status:  models.AdminStatusActive,
		}
		if err := s.storage.CreateAdministrator(ctx, admin); err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, admin)
	}
}
