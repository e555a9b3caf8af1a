package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/kabulqd1101/kanban/api/handler"
)

type Handlers struct {
	User   *apiHandler.UserHandler
	Task   *apiHandler.TaskHandler
	Board  *apiHandler.BoardHandler
	Report *apiHandler.ReportHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, actingUser func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Roster
	r.GET("/api/v1/users", actingUser(handlers.User.GetUsers))
	r.GET("/api/v1/users/{id}", actingUser(handlers.User.GetUser))

	// Task editor
	r.GET("/api/v1/tasks", actingUser(handlers.Task.GetTasks))
	r.GET("/api/v1/tasks/draft", actingUser(handlers.Task.GetDraft))
	r.GET("/api/v1/tasks/{id}", actingUser(handlers.Task.GetTask))
	r.GET("/api/v1/tasks/{id}/draft", actingUser(handlers.Task.GetEditDraft))
	r.POST("/api/v1/tasks", actingUser(handlers.Task.CreateTask))
	r.PUT("/api/v1/tasks/{id}", actingUser(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", actingUser(handlers.Task.DeleteTask))

	// Board views
	r.GET("/api/v1/board/members", actingUser(handlers.Board.GetSwimlanes))
	r.GET("/api/v1/board/status", actingUser(handlers.Board.GetStatusColumns))
	r.GET("/api/v1/analytics", actingUser(handlers.Board.GetAnalytics))
	r.GET("/api/v1/standup/{index}", actingUser(handlers.Board.GetStandup))

	// Report collaborator
	r.POST("/api/v1/reports/weekly", actingUser(handlers.Report.GenerateWeekly))
	r.POST("/api/v1/tasks/{id}/analysis", actingUser(handlers.Report.AnalyzeGap))
	r.GET("/api/v1/reports", actingUser(handlers.Report.ListArchive))
	r.GET("/api/v1/reports/{id}", actingUser(handlers.Report.GetArchived))

	return r
}
