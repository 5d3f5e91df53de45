package handler

import "github.com/gin-gonic/gin"

// Handlers groups every endpoint handler of the main service.
type Handlers struct {
	Categories   *CategoryHandler
	Users        *UserHandler
	Events       *EventHandler
	Requests     *RequestHandler
	Compilations *CompilationHandler
	Comments     *CommentHandler
}

// RouteGuards are optional middlewares; nil entries are skipped.
type RouteGuards struct {
	Admin  gin.HandlerFunc
	Public gin.HandlerFunc
}

func guard(mw gin.HandlerFunc) []gin.HandlerFunc {
	if mw == nil {
		return nil
	}
	return []gin.HandlerFunc{mw}
}

// RegisterRoutes mounts the admin, private and public APIs on r.
func RegisterRoutes(r gin.IRouter, h Handlers, guards RouteGuards) {
	admin := r.Group("/admin", guard(guards.Admin)...)
	{
		admin.POST("/categories", h.Categories.CreateCategory)
		admin.PATCH("/categories/:catId", h.Categories.UpdateCategory)
		admin.DELETE("/categories/:catId", h.Categories.DeleteCategory)

		admin.POST("/users", h.Users.CreateUser)
		admin.GET("/users", h.Users.ListUsers)
		admin.DELETE("/users/:userId", h.Users.DeleteUser)

		admin.GET("/events", h.Events.AdminSearchEvents)
		admin.PATCH("/events/:eventId", h.Events.AdminUpdateEvent)

		admin.POST("/compilations", h.Compilations.CreateCompilation)
		admin.PATCH("/compilations/:compId", h.Compilations.UpdateCompilation)
		admin.DELETE("/compilations/:compId", h.Compilations.DeleteCompilation)

		admin.DELETE("/comments/:commentId", h.Comments.AdminDeleteComment)
	}

	users := r.Group("/users/:userId")
	{
		users.POST("/events", h.Events.CreateEvent)
		users.GET("/events", h.Events.ListUserEvents)
		users.GET("/events/:eventId", h.Events.GetUserEvent)
		users.PATCH("/events/:eventId", h.Events.UpdateUserEvent)
		users.GET("/events/:eventId/requests", h.Requests.ListEventRequests)
		users.PATCH("/events/:eventId/requests", h.Requests.UpdateRequestStatus)

		users.POST("/requests", h.Requests.CreateRequest)
		users.GET("/requests", h.Requests.ListUserRequests)
		users.PATCH("/requests/:requestId/cancel", h.Requests.CancelRequest)

		users.GET("/comments", h.Comments.ListUserComments)
		users.POST("/comments/:eventId", h.Comments.CreateComment)
		users.PATCH("/comments/:commentId", h.Comments.UpdateComment)
		users.DELETE("/comments/:commentId", h.Comments.DeleteComment)
	}

	public := r.Group("", guard(guards.Public)...)
	{
		public.GET("/categories", h.Categories.ListCategories)
		public.GET("/categories/:catId", h.Categories.GetCategory)

		public.GET("/events", h.Events.SearchEvents)
		public.GET("/events/:eventId", h.Events.GetEvent)
		public.GET("/events/:eventId/comments", h.Comments.ListEventComments)

		public.GET("/compilations", h.Compilations.ListCompilations)
		public.GET("/compilations/:compId", h.Compilations.GetCompilation)
	}
}
