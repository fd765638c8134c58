package handlers

import (
	"github.com/gin-gonic/gin"

	"backend/internal/middleware"
	"backend/internal/models"
)

// RegisterRoutes wires the full route table under /api.
func (a *App) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// public
	api.POST("/register", a.RegisterOrganisation)
	api.POST("/sigin-user", a.Login)
	api.GET("/forgot-password", a.ForgotPassword)
	api.POST("/forgot-password", a.ForgotPassword)
	api.PATCH("/reset-password/:token", a.ResetPassword)
	api.PATCH("/submit-feedback/:bookingId", a.SubmitFeedback)

	authed := api.Group("", middleware.Authenticate(a.JWTSecret))
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// users
	authed.POST("/signup-user", adminOnly, a.SignupUser)
	authed.GET("/all-users", a.GetAllUsers)
	authed.PATCH("/all-users/:id", a.UpdateUser)
	authed.DELETE("/all-users/:id", adminOnly, a.DeleteUser)

	// flight+hotel leads
	authed.POST("/booked-flight-hotel/create", a.createBooking(flightHotelBookings))
	authed.GET("/all-booked-flight-hotel", a.listBookings(flightHotelBookings))
	authed.GET("/booked-flight-hotel/:id", a.getBooking(flightHotelBookings))
	authed.PATCH("/booked-flight-hotel/:id", a.updateBooking(flightHotelBookings))
	authed.DELETE("/booked-flight-hotel/:id", a.deleteBooking(flightHotelBookings))

	// holiday package leads
	authed.POST("/book-holiday-package/create", a.createBooking(holidayBookings))
	authed.GET("/all-book-holiday-package", a.listBookings(holidayBookings))
	authed.GET("/book-holiday-package/:id", a.getBooking(holidayBookings))
	authed.PATCH("/book-holiday-package/:id", a.updateBooking(holidayBookings))
	authed.DELETE("/book-holiday-package/:id", a.deleteBooking(holidayBookings))

	// sales
	authed.GET("/all-sales-data", a.ListSales)
	authed.GET("/sales-data/:id", a.GetSale)
	authed.PATCH("/sales-data/:id", a.UpdateSale)
	authed.DELETE("/sales-data/:id", adminOnly, a.DeleteSale)

	// audit trail
	authed.GET("/all-audit-logs", a.ListAuditLogs)
	authed.DELETE("/all-audit-logs", adminOnly, a.PurgeAuditLogs)

	// feedback sweep
	authed.POST("/trigger-feedback-emails", a.TriggerFeedbackEmails)

	// coupons and markups
	authed.POST("/coupon/create", a.CreateCoupon)
	authed.GET("/all-coupon", a.ListCoupons)
	authed.GET("/coupon/:id", a.GetCoupon)
	authed.PATCH("/coupon/:id", a.UpdateCoupon)
	authed.DELETE("/coupon/:id", a.DeleteCoupon)

	authed.POST("/markup/create", a.CreateMarkup)
	authed.GET("/all-markup", a.ListMarkups)
	authed.GET("/markup/:id", a.GetMarkup)
	authed.PATCH("/markup/:id", a.UpdateMarkup)
	authed.DELETE("/markup/:id", a.DeleteMarkup)

	// flight offers
	authed.POST("/flight-offers/search", a.SearchFlightOffers)
	authed.GET("/flight-offers", a.ListFlightOffers)
	authed.GET("/flight-offers/:id", a.GetFlightOffer)
	authed.POST("/flight-offers/:id/price", a.PriceFlightOffer)
	authed.POST("/flight-offers/:id/book", a.BookFlightOffer)
}
