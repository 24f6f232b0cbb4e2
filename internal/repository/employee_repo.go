package repository

import (
	"context"
	"time"

	"sigrap/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	FindByDocument(ctx context.Context, document string) (*model.Employee, error)
	List(ctx context.Context, page, limit int) ([]model.Employee, int64, error)

	CreateSchedule(ctx context.Context, schedule *model.Schedule) error
	DeleteSchedule(ctx context.Context, id uuid.UUID) error
	ListSchedules(ctx context.Context, employeeID uuid.UUID) ([]model.Schedule, error)

	CreateAttendance(ctx context.Context, attendance *model.Attendance) error
	UpdateAttendance(ctx context.Context, attendance *model.Attendance) error
	FindOpenAttendance(ctx context.Context, employeeID uuid.UUID) (*model.Attendance, error)
	ListAttendance(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]model.Attendance, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Create(employee).Error
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Save(employee).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Employee{}).Error
}

func (r *employeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) FindByDocument(ctx context.Context, document string) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).First(&employee, "document_number = ?", document).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, page, limit int) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Employee{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("full_name asc").Offset(offset).Limit(limit).Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) CreateSchedule(ctx context.Context, schedule *model.Schedule) error {
	return GetDB(ctx, r.db).Create(schedule).Error
}

func (r *employeeRepository) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Schedule{}).Error
}

func (r *employeeRepository) ListSchedules(ctx context.Context, employeeID uuid.UUID) ([]model.Schedule, error) {
	var schedules []model.Schedule
	if err := GetDB(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("weekday asc, start_time asc").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *employeeRepository) CreateAttendance(ctx context.Context, attendance *model.Attendance) error {
	return GetDB(ctx, r.db).Create(attendance).Error
}

func (r *employeeRepository) UpdateAttendance(ctx context.Context, attendance *model.Attendance) error {
	return GetDB(ctx, r.db).Save(attendance).Error
}

// FindOpenAttendance returns the employee's attendance row without a clock-out, if any
func (r *employeeRepository) FindOpenAttendance(ctx context.Context, employeeID uuid.UUID) (*model.Attendance, error) {
	var attendance model.Attendance
	if err := GetDB(ctx, r.db).
		Where("employee_id = ? AND clock_out IS NULL", employeeID).
		Order("clock_in desc").
		First(&attendance).Error; err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (r *employeeRepository) ListAttendance(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]model.Attendance, error) {
	var records []model.Attendance
	if err := GetDB(ctx, r.db).
		Where("employee_id = ? AND clock_in >= ? AND clock_in <= ?", employeeID, from, to).
		Order("clock_in desc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
