package handler

import "github.com/gin-gonic/gin"

// Router groups the handlers mounted under the API prefix.
type Router struct {
	Schools  *SchoolHandler
	Students *StudentHandler
	Invoices *InvoiceHandler
}

// Register mounts every API route on group.
func (r Router) Register(group *gin.RouterGroup) {
	schools := group.Group("/schools")
	schools.GET("", r.Schools.List)
	schools.POST("", r.Schools.Create)
	schools.GET("/:id", r.Schools.Get)
	schools.DELETE("/:id", r.Schools.Delete)
	schools.GET("/:id/students", r.Schools.Students)
	schools.POST("/:id/students", r.Schools.Enroll)
	schools.PATCH("/:id/students/:student_id", r.Schools.UpdateMembership)
	schools.DELETE("/:id/students/:student_id", r.Schools.Unenroll)
	schools.GET("/:id/debt", r.Schools.Debt)

	students := group.Group("/students")
	students.GET("", r.Students.List)
	students.POST("", r.Students.Create)
	students.GET("/:id", r.Students.Get)
	students.DELETE("/:id", r.Students.Delete)
	students.GET("/:id/financial-status", r.Students.FinancialStatus)
	students.GET("/:id/financial-status/export", r.Students.ExportStatement)
	students.GET("/:id/memberships", r.Students.Memberships)
	students.GET("/:id/school", r.Students.CurrentSchool)

	invoices := group.Group("/invoices")
	invoices.GET("", r.Invoices.List)
	invoices.POST("", r.Invoices.Create)
	invoices.GET("/payments", r.Invoices.ListPayments)
	invoices.POST("/payments", r.Invoices.CreatePayment)
	invoices.DELETE("/payments/:id", r.Invoices.DeletePayment)
	invoices.DELETE("/:id", r.Invoices.Delete)
	invoices.PATCH("/:id/status", r.Invoices.UpdateStatus)
}
