package handler

import (
	"net/http"

	"sigrap/internal/authz"
	"sigrap/internal/middleware"
	"sigrap/internal/service"
	"sigrap/pkg/pagination"
	"sigrap/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
	evaluator       *authz.Evaluator
}

// NewEmployeeHandler sets up the routing dependencies for Employee endpoints
func NewEmployeeHandler(employeeService service.EmployeeService, evaluator *authz.Evaluator) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService, evaluator: evaluator}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	employees := router.Group("/employees")
	{
		employees.GET("", middleware.RequirePermission(h.evaluator, authz.ResourceEmployee, authz.ActionRead), h.ListEmployees)
		employees.GET("/:id", middleware.RequirePermission(h.evaluator, authz.ResourceEmployee, authz.ActionRead), h.GetEmployee)
		employees.POST("", middleware.RequirePermission(h.evaluator, authz.ResourceEmployee, authz.ActionCreate), h.CreateEmployee)
		employees.PUT("/:id", middleware.RequirePermission(h.evaluator, authz.ResourceEmployee, authz.ActionUpdate), h.UpdateEmployee)
		employees.DELETE("/:id", middleware.RequirePermission(h.evaluator, authz.ResourceEmployee, authz.ActionDelete), h.DeleteEmployee)

		employees.GET("/:id/schedules", middleware.RequirePermission(h.evaluator, authz.ResourceSchedule, authz.ActionRead), h.ListSchedules)
		employees.POST("/:id/schedules", middleware.RequirePermission(h.evaluator, authz.ResourceSchedule, authz.ActionCreate), h.AddSchedule)
		employees.DELETE("/:id/schedules/:scheduleId", middleware.RequirePermission(h.evaluator, authz.ResourceSchedule, authz.ActionDelete), h.RemoveSchedule)

		employees.GET("/:id/attendance", middleware.RequirePermission(h.evaluator, authz.ResourceAttendance, authz.ActionRead), h.ListAttendance)
		employees.POST("/:id/attendance/clock-in", middleware.RequirePermission(h.evaluator, authz.ResourceAttendance, authz.ActionCreate), h.ClockIn)
		employees.POST("/:id/attendance/clock-out", middleware.RequirePermission(h.evaluator, authz.ResourceAttendance, authz.ActionUpdate), h.ClockOut)
	}
}

// ListEmployees handles GET /employees
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Items per page"
// @Success      200    {object}  response.Paged{data=[]service.EmployeeResponse}
// @Router       /employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	p := pagination.Parse(c)
	employees, total, err := h.employeeService.ListEmployees(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessPaged(http.StatusOK, employees, total, p.Page, p.Limit))
}

// GetEmployee handles GET /employees/:id
// @Summary      Get employee by ID
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=service.EmployeeResponse}
// @Failure      404  {object}  response.Response
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.employeeService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// CreateEmployee handles POST /employees
// @Summary      Create employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateEmployeeRequest  true  "Create Employee Payload"
// @Success      201      {object}  response.Response{data=service.EmployeeResponse}
// @Failure      400      {object}  response.Response
// @Router       /employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employee))
}

// UpdateEmployee handles PUT /employees/:id
// @Summary      Update employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Employee ID"
// @Param        payload  body      service.UpdateEmployeeRequest  true  "Update Employee Payload"
// @Success      200      {object}  response.Response{data=service.EmployeeResponse}
// @Failure      404      {object}  response.Response
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// DeleteEmployee handles DELETE /employees/:id
// @Summary      Delete employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeService.DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "employee deleted"}))
}

// ListSchedules handles GET /employees/:id/schedules
// @Summary      List employee schedules
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=[]service.ScheduleResponse}
// @Router       /employees/{id}/schedules [get]
func (h *EmployeeHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.employeeService.ListSchedules(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, schedules))
}

// AddSchedule handles POST /employees/:id/schedules
// @Summary      Add employee schedule
// @Description  Adds a weekly recurring shift; start time must precede end time
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Employee ID"
// @Param        payload  body      service.CreateScheduleRequest  true  "Schedule Payload"
// @Success      201      {object}  response.Response{data=service.ScheduleResponse}
// @Failure      400      {object}  response.Response
// @Router       /employees/{id}/schedules [post]
func (h *EmployeeHandler) AddSchedule(c *gin.Context) {
	var req service.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	schedule, err := h.employeeService.AddSchedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, schedule))
}

// RemoveSchedule handles DELETE /employees/:id/schedules/:scheduleId
// @Summary      Remove employee schedule
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id          path      string  true  "Employee ID"
// @Param        scheduleId  path      string  true  "Schedule ID"
// @Success      200         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /employees/{id}/schedules/{scheduleId} [delete]
func (h *EmployeeHandler) RemoveSchedule(c *gin.Context) {
	if err := h.employeeService.RemoveSchedule(c.Request.Context(), c.Param("id"), c.Param("scheduleId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "schedule removed"}))
}

// ListAttendance handles GET /employees/:id/attendance
// @Summary      List attendance records
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   string  true   "Employee ID"
// @Param        from  query  string  false  "Start date YYYY-MM-DD"
// @Param        to    query  string  false  "End date YYYY-MM-DD"
// @Success      200   {object}  response.Response{data=[]service.AttendanceResponse}
// @Router       /employees/{id}/attendance [get]
func (h *EmployeeHandler) ListAttendance(c *gin.Context) {
	records, err := h.employeeService.ListAttendance(c.Request.Context(), c.Param("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, records))
}

// ClockIn handles POST /employees/:id/attendance/clock-in
// @Summary      Clock in
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true   "Employee ID"
// @Param        payload  body      service.ClockInRequest  false  "Clock-in Payload"
// @Success      201      {object}  response.Response{data=service.AttendanceResponse}
// @Failure      409      {object}  response.Response
// @Router       /employees/{id}/attendance/clock-in [post]
func (h *EmployeeHandler) ClockIn(c *gin.Context) {
	var req service.ClockInRequest
	// Notes are optional; an empty body is fine
	_ = c.ShouldBindJSON(&req)

	record, err := h.employeeService.ClockIn(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}

// ClockOut handles POST /employees/:id/attendance/clock-out
// @Summary      Clock out
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=service.AttendanceResponse}
// @Failure      404  {object}  response.Response
// @Router       /employees/{id}/attendance/clock-out [post]
func (h *EmployeeHandler) ClockOut(c *gin.Context) {
	record, err := h.employeeService.ClockOut(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}
