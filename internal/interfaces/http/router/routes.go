package router

import (
	"github.com/gin-gonic/gin"
	"github.com/manutdmohit/proficientlegal-sub000/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers mounted by the site routes
type Handlers struct {
	Content   *handler.ContentHandler
	Enquiry   *handler.EnquiryHandler
	Blog      *handler.BlogHandler
	Media     *handler.MediaHandler
	Booking   *handler.BookingHandler
	Webhook   *handler.StripeWebhookHandler
	Outbox    *handler.OutboxHandler
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	System    *handler.SystemHandler
}

// Middleware are the route-scoped middleware. Nil entries are skipped.
type Middleware struct {
	// JWT guards the admin group and the session endpoints
	JWT gin.HandlerFunc
	// Admin runs after JWT on authenticated routes
	Admin []gin.HandlerFunc
	// EnquiryLimit and CommentLimit guard the public write endpoints
	EnquiryLimit gin.HandlerFunc
	CommentLimit gin.HandlerFunc
	// AuthLimit guards login and refresh
	AuthLimit gin.HandlerFunc
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// SiteGroups builds the route groups of the practice site API
func SiteGroups(h Handlers, mw Middleware) []*DomainGroup {
	content := NewDomainGroup("content", "/content").
		GET("/practice-areas", h.Content.ListPracticeAreas).
		GET("/practice-areas/:slug", h.Content.GetPracticeArea).
		GET("/team", h.Content.ListTeam).
		GET("/team/:slug", h.Content.GetTeamMember).
		GET("/locations", h.Content.ListLocations).
		GET("/faqs", h.Content.ListFAQs).
		GET("/testimonials", h.Content.ListTestimonials)

	enquiries := NewDomainGroup("enquiries", "/enquiries").
		POST("", chain(mw.EnquiryLimit, h.Enquiry.Submit)...)

	blog := NewDomainGroup("blog", "/blog").
		GET("/posts", h.Blog.ListPublished).
		GET("/posts/:slug", h.Blog.GetPublished).
		GET("/posts/:slug/comments", h.Blog.ListComments).
		POST("/posts/:slug/comments", chain(mw.CommentLimit, h.Blog.AddComment)...).
		GET("/tags", h.Blog.ListTags)

	bookings := NewDomainGroup("bookings", "/bookings").
		POST("/checkout", chain(mw.EnquiryLimit, h.Booking.Checkout)...).
		GET("/slots", h.Booking.Slots).
		GET("/lookup", h.Booking.Lookup)

	webhooks := NewDomainGroup("webhooks", "/webhooks").
		POST("/stripe", h.Webhook.HandleStripeWebhook)

	authGroup := NewDomainGroup("auth", "/auth").
		POST("/login", chain(mw.AuthLimit, h.Auth.Login)...).
		POST("/refresh", chain(mw.AuthLimit, h.Auth.RefreshToken)...)
	authGroup.Group("session", "").
		Use(mw.JWT).
		Use(mw.Admin...).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.GetCurrentUser).
		PUT("/password", h.Auth.ChangePassword)

	admin := NewDomainGroup("admin", "/admin").
		Use(mw.JWT).
		Use(mw.Admin...).
		GET("/dashboard", h.Dashboard.Summary).
		GET("/system/info", h.System.GetSystemInfo)

	admin.Group("admin-enquiries", "/enquiries").
		GET("", h.Enquiry.List).
		GET("/:id", h.Enquiry.Get).
		PATCH("/:id/status", h.Enquiry.UpdateStatus).
		DELETE("/:id", h.Enquiry.Delete)

	admin.Group("admin-posts", "/posts").
		GET("", h.Blog.ListPosts).
		POST("", h.Blog.CreatePost).
		GET("/:id", h.Blog.GetPost).
		PUT("/:id", h.Blog.UpdatePost).
		DELETE("/:id", h.Blog.DeletePost).
		POST("/:id/publish", h.Blog.PublishPost).
		POST("/:id/unpublish", h.Blog.UnpublishPost).
		POST("/:id/archive", h.Blog.ArchivePost)

	admin.Group("admin-comments", "/comments").
		GET("", h.Blog.ListAllComments).
		PATCH("/:id/moderate", h.Blog.ModerateComment).
		DELETE("/:id", h.Blog.DeleteComment)

	admin.Group("admin-media", "/media").
		POST("/upload-url", h.Media.RequestUploadURL).
		POST("", h.Media.Upload).
		DELETE("/*key", h.Media.Delete)

	admin.Group("admin-bookings", "/bookings").
		GET("", h.Booking.List).
		GET("/:id", h.Booking.Get).
		POST("/:id/cancel", h.Booking.Cancel)

	admin.Group("admin-payments", "/payments").
		GET("", h.Booking.ListPayments).
		POST("/:id/resend-receipt", h.Booking.ResendReceipt)

	admin.Group("admin-outbox", "/outbox").
		GET("/dead", h.Outbox.GetDeadLetterEntries).
		GET("/stats", h.Outbox.GetStats).
		GET("/:id", h.Outbox.GetEntry).
		POST("/:id/retry", h.Outbox.RetryDeadEntry)

	system := NewDomainGroup("system", "").
		GET("/health", h.System.Health).
		GET("/ping", h.System.Ping)

	return []*DomainGroup{content, enquiries, blog, bookings, webhooks, authGroup, admin, system}
}

// Mount registers the site API on engine, plus the unversioned /health probe
func Mount(engine *gin.Engine, h Handlers, mw Middleware) *Router {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine)
	for _, g := range SiteGroups(h, mw) {
		r.Register(g)
	}
	r.Setup()
	return r
}
