package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Houeta/hrkeeper/internal/models"
	"github.com/Houeta/hrkeeper/internal/report"
	"github.com/Houeta/hrkeeper/internal/repository"
	"github.com/Houeta/hrkeeper/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeAttendanceRepo struct {
	createFn        func(ctx context.Context, att models.Attendance) (models.Attendance, error)
	getFn           func(ctx context.Context, id string) (models.Attendance, error)
	listFn          func(ctx context.Context, filter repository.AttendanceFilter) ([]models.Attendance, error)
	updateFn        func(ctx context.Context, att models.Attendance) error
	deleteFn        func(ctx context.Context, id string) error
	existsFn        func(ctx context.Context, employeeID string, date time.Time, excludeID string) (bool, error)
	getEmployeeFn   func(ctx context.Context, employeeID string) (models.Employee, error)
}

func (f *fakeAttendanceRepo) CreateAttendance(ctx context.Context, att models.Attendance) (models.Attendance, error) {
	return f.createFn(ctx, att)
}

func (f *fakeAttendanceRepo) GetAttendanceByID(ctx context.Context, id string) (models.Attendance, error) {
	return f.getFn(ctx, id)
}

func (f *fakeAttendanceRepo) ListAttendance(
	ctx context.Context,
	filter repository.AttendanceFilter,
) ([]models.Attendance, error) {
	return f.listFn(ctx, filter)
}

func (f *fakeAttendanceRepo) UpdateAttendance(ctx context.Context, att models.Attendance) error {
	return f.updateFn(ctx, att)
}

func (f *fakeAttendanceRepo) DeleteAttendance(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeAttendanceRepo) AttendanceExists(
	ctx context.Context,
	employeeID string,
	date time.Time,
	excludeID string,
) (bool, error) {
	if f.existsFn == nil {
		return false, nil
	}
	return f.existsFn(ctx, employeeID, date, excludeID)
}

func (f *fakeAttendanceRepo) GetEmployeeByEmployeeID(
	ctx context.Context,
	employeeID string,
) (models.Employee, error) {
	return f.getEmployeeFn(ctx, employeeID)
}

func knownEmployee() models.Employee {
	return models.Employee{
		ID:         uuid.NewString(),
		EmployeeID: "EMP001",
		FullName:   "John Doe",
		Email:      "john.doe@example.com",
		Department: "Engineering",
	}
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 10, 30, 0, 0, time.UTC)
	}
}

func TestAttendanceCreate(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	emp := knownEmployee()

	t.Run("success - resolves employee reference", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getEmployeeFn: func(_ context.Context, employeeID string) (models.Employee, error) {
				assert.Equal(t, "EMP001", employeeID)
				return emp, nil
			},
			createFn: func(_ context.Context, att models.Attendance) (models.Attendance, error) {
				assert.Equal(t, emp.ID, att.EmployeeID)
				att.ID = uuid.NewString()
				att.CreatedAt = time.Now()
				return att, nil
			},
		}
		svc := service.NewAttendanceService(repo, nil)
		svc.SetNow(fixedClock(2024, time.January, 16))

		att, err := svc.Create(ctx, service.AttendanceInput{
			EmployeeID: "EMP001",
			Date:       "2024-01-15",
			Status:     models.StatusPresent,
		})

		require.NoError(t, err)
		assert.Equal(t, models.StatusPresent, att.Status)
		assert.Equal(t, "2024-01-15", att.Date.Format(service.DateLayout))
		require.NotNil(t, att.Employee)
		assert.Equal(t, "EMP001", att.Employee.EmployeeID)
	})

	t.Run("success - today is not a future date", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getEmployeeFn: func(_ context.Context, _ string) (models.Employee, error) {
				return emp, nil
			},
			createFn: func(_ context.Context, att models.Attendance) (models.Attendance, error) {
				return att, nil
			},
		}
		svc := service.NewAttendanceService(repo, nil)
		svc.SetNow(fixedClock(2024, time.January, 15))

		_, err := svc.Create(ctx, service.AttendanceInput{
			EmployeeID: "EMP001",
			Date:       "2024-01-15",
			Status:     models.StatusAbsent,
		})

		require.NoError(t, err)
	})

	t.Run("error - unknown employee", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getEmployeeFn: func(_ context.Context, _ string) (models.Employee, error) {
				return models.Employee{}, repository.ErrEmployeeNotFound
			},
		}
		svc := service.NewAttendanceService(repo, nil)

		_, err := svc.Create(ctx, service.AttendanceInput{
			EmployeeID: "EMP999",
			Date:       "2024-01-15",
			Status:     models.StatusPresent,
		})

		var nfErr *service.NotFoundError
		require.ErrorAs(t, err, &nfErr)
		assert.Equal(t, "Employee not found", nfErr.Message)
		assert.Equal(t, "No employee found with ID: EMP999", nfErr.Details)
	})

	t.Run("error - missing employee ID", func(t *testing.T) {
		t.Parallel()
		svc := service.NewAttendanceService(&fakeAttendanceRepo{}, nil)

		_, err := svc.Create(ctx, service.AttendanceInput{Date: "2024-01-15", Status: models.StatusPresent})

		var vErr *service.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "Employee ID is required", vErr.Fields["employeeId"])
	})

	t.Run("error - malformed date", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getEmployeeFn: func(_ context.Context, _ string) (models.Employee, error) {
				return emp, nil
			},
		}
		svc := service.NewAttendanceService(repo, nil)

		_, err := svc.Create(ctx, service.AttendanceInput{
			EmployeeID: "EMP001",
			Date:       "15-01-2024",
			Status:     models.StatusPresent,
		})

		var vErr *service.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "Date must be in YYYY-MM-DD format", vErr.Fields["date"])
	})

	t.Run("error - future date", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getEmployeeFn: func(_ context.Context, _ string) (models.Employee, error) {
				return emp, nil
			},
		}
		svc := service.NewAttendanceService(repo, nil)
		svc.SetNow(fixedClock(2024, time.January, 15))

		_, err := svc.Create(ctx, service.AttendanceInput{
			EmployeeID: "EMP001",
			Date:       "2024-01-16",
			Status:     models.StatusPresent,
		})

		var vErr *service.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "Attendance date cannot be in the future", vErr.Fields["date"])
	})

	t.Run("error - invalid status", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getEmployeeFn: func(_ context.Context, _ string) (models.Employee, error) {
				return emp, nil
			},
		}
		svc := service.NewAttendanceService(repo, nil)
		svc.SetNow(fixedClock(2024, time.January, 16))

		_, err := svc.Create(ctx, service.AttendanceInput{
			EmployeeID: "EMP001",
			Date:       "2024-01-15",
			Status:     "Late",
		})

		var vErr *service.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "Status must be either Present or Absent", vErr.Fields["status"])
	})

	t.Run("error - duplicate record for the day", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getEmployeeFn: func(_ context.Context, _ string) (models.Employee, error) {
				return emp, nil
			},
			existsFn: func(_ context.Context, employeeID string, _ time.Time, excludeID string) (bool, error) {
				assert.Equal(t, emp.ID, employeeID)
				assert.Equal(t, uuid.Nil.String(), excludeID)
				return true, nil
			},
		}
		svc := service.NewAttendanceService(repo, nil)
		svc.SetNow(fixedClock(2024, time.January, 16))

		_, err := svc.Create(ctx, service.AttendanceInput{
			EmployeeID: "EMP001",
			Date:       "2024-01-15",
			Status:     models.StatusPresent,
		})

		var dErr *service.DuplicateError
		require.ErrorAs(t, err, &dErr)
		assert.Equal(t, "Attendance for this employee on 2024-01-15 already exists", dErr.Message)
	})
}

func TestAttendanceList(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	emp := knownEmployee()

	t.Run("success - employee filter resolved to store ID", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getEmployeeFn: func(_ context.Context, _ string) (models.Employee, error) {
				return emp, nil
			},
			listFn: func(_ context.Context, filter repository.AttendanceFilter) ([]models.Attendance, error) {
				assert.Equal(t, emp.ID, filter.EmployeeID)
				require.NotNil(t, filter.Date)
				assert.Equal(t, "2024-01-15", filter.Date.Format(service.DateLayout))
				return []models.Attendance{{ID: uuid.NewString()}}, nil
			},
		}
		svc := service.NewAttendanceService(repo, nil)

		records, err := svc.List(ctx, service.AttendanceListFilter{EmployeeID: "EMP001", Date: "2024-01-15"})

		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("success - no filters", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			listFn: func(_ context.Context, filter repository.AttendanceFilter) ([]models.Attendance, error) {
				assert.Empty(t, filter.EmployeeID)
				assert.Nil(t, filter.Date)
				return nil, nil
			},
		}
		svc := service.NewAttendanceService(repo, nil)

		_, err := svc.List(ctx, service.AttendanceListFilter{})

		require.NoError(t, err)
	})

	t.Run("error - unknown employee in filter", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getEmployeeFn: func(_ context.Context, _ string) (models.Employee, error) {
				return models.Employee{}, repository.ErrEmployeeNotFound
			},
		}
		svc := service.NewAttendanceService(repo, nil)

		_, err := svc.List(ctx, service.AttendanceListFilter{EmployeeID: "EMP999"})

		var nfErr *service.NotFoundError
		require.ErrorAs(t, err, &nfErr)
	})
}

func TestAttendanceUpdate(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	emp := knownEmployee()
	attID := uuid.NewString()

	t.Run("success - duplicate check excludes own record", func(t *testing.T) {
		t.Parallel()
		stored := models.Attendance{
			ID:         attID,
			EmployeeID: emp.ID,
			Date:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Status:     models.StatusAbsent,
			Employee:   &emp,
		}
		repo := &fakeAttendanceRepo{
			getFn: func(_ context.Context, _ string) (models.Attendance, error) {
				return stored, nil
			},
			getEmployeeFn: func(_ context.Context, _ string) (models.Employee, error) {
				return emp, nil
			},
			existsFn: func(_ context.Context, _ string, _ time.Time, excludeID string) (bool, error) {
				assert.Equal(t, attID, excludeID)
				return false, nil
			},
			updateFn: func(_ context.Context, att models.Attendance) error {
				assert.Equal(t, attID, att.ID)
				assert.Equal(t, models.StatusAbsent, att.Status)
				return nil
			},
		}
		svc := service.NewAttendanceService(repo, nil)
		svc.SetNow(fixedClock(2024, time.January, 16))

		updated, err := svc.Update(ctx, attID, service.AttendanceInput{
			EmployeeID: "EMP001",
			Date:       "2024-01-15",
			Status:     models.StatusAbsent,
		})

		require.NoError(t, err)
		assert.Equal(t, attID, updated.ID)
	})

	t.Run("error - record does not exist", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getFn: func(_ context.Context, _ string) (models.Attendance, error) {
				return models.Attendance{}, repository.ErrAttendanceNotFound
			},
		}
		svc := service.NewAttendanceService(repo, nil)

		_, err := svc.Update(ctx, attID, service.AttendanceInput{
			EmployeeID: "EMP001",
			Date:       "2024-01-15",
			Status:     models.StatusPresent,
		})

		var nfErr *service.NotFoundError
		require.ErrorAs(t, err, &nfErr)
		assert.Equal(t, "Attendance record not found", nfErr.Message)
	})
}

func TestAttendanceDelete(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		attID := uuid.NewString()
		repo := &fakeAttendanceRepo{
			deleteFn: func(_ context.Context, id string) error {
				assert.Equal(t, attID, id)
				return nil
			},
		}
		svc := service.NewAttendanceService(repo, nil)

		require.NoError(t, svc.Delete(ctx, attID))
	})

	t.Run("error - malformed ID", func(t *testing.T) {
		t.Parallel()
		svc := service.NewAttendanceService(&fakeAttendanceRepo{}, nil)

		err := svc.Delete(ctx, "nope")

		var idErr *service.InvalidIDError
		require.ErrorAs(t, err, &idErr)
		assert.Equal(t, "Invalid attendance ID", idErr.Message)
	})
}

func TestListForEmployee(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	emp := knownEmployee()

	t.Run("success - statistics computed over the range", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getEmployeeFn: func(_ context.Context, _ string) (models.Employee, error) {
				return emp, nil
			},
			listFn: func(_ context.Context, filter repository.AttendanceFilter) ([]models.Attendance, error) {
				require.NotNil(t, filter.StartDate)
				require.NotNil(t, filter.EndDate)
				assert.Equal(t, "2024-01-01", filter.StartDate.Format(service.DateLayout))
				assert.Equal(t, "2024-01-31", filter.EndDate.Format(service.DateLayout))
				return []models.Attendance{
					{Status: models.StatusPresent},
					{Status: models.StatusPresent},
					{Status: models.StatusAbsent},
				}, nil
			},
		}
		svc := service.NewAttendanceService(repo, nil)

		gotEmp, records, stats, err := svc.ListForEmployee(ctx, "EMP001", "2024-01-01", "2024-01-31")

		require.NoError(t, err)
		assert.Equal(t, emp.EmployeeID, gotEmp.EmployeeID)
		assert.Len(t, records, 3)
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, 2, stats.Present)
		assert.Equal(t, 1, stats.Absent)
		assert.Equal(t, stats.Total, stats.Present+stats.Absent)
	})

	t.Run("error - malformed range bound", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getEmployeeFn: func(_ context.Context, _ string) (models.Employee, error) {
				return emp, nil
			},
		}
		svc := service.NewAttendanceService(repo, nil)

		_, _, _, err := svc.ListForEmployee(ctx, "EMP001", "January 1st", "")

		var vErr *service.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "Date must be in YYYY-MM-DD format", vErr.Fields["start_date"])
	})

	t.Run("error - unknown employee", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getEmployeeFn: func(_ context.Context, _ string) (models.Employee, error) {
				return models.Employee{}, repository.ErrEmployeeNotFound
			},
		}
		svc := service.NewAttendanceService(repo, nil)

		_, _, _, err := svc.ListForEmployee(ctx, "EMP999", "", "")

		var nfErr *service.NotFoundError
		require.ErrorAs(t, err, &nfErr)
	})
}

func TestExportReport(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	emp := knownEmployee()

	t.Run("success - returns workbook and dated filename", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getEmployeeFn: func(_ context.Context, _ string) (models.Employee, error) {
				return emp, nil
			},
			listFn: func(_ context.Context, _ repository.AttendanceFilter) ([]models.Attendance, error) {
				return []models.Attendance{
					{Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Status: models.StatusPresent, CreatedAt: time.Now()},
					{Date: time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), Status: models.StatusAbsent, CreatedAt: time.Now()},
				}, nil
			},
		}
		svc := service.NewAttendanceService(repo, nil)
		svc.SetNow(fixedClock(2024, time.February, 1))

		buffer, filename, err := svc.ExportReport(ctx, "EMP001", "", "")

		require.NoError(t, err)
		assert.Equal(t, "attendance_EMP001_2024-02-01.xlsx", filename)

		workbook, err := excelize.OpenReader(buffer)
		require.NoError(t, err)
		defer workbook.Close()
		assert.Contains(t, workbook.GetSheetList(), models.StatusPresent)
		assert.Contains(t, workbook.GetSheetList(), models.StatusAbsent)
	})

	t.Run("error - no records to export", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAttendanceRepo{
			getEmployeeFn: func(_ context.Context, _ string) (models.Employee, error) {
				return emp, nil
			},
			listFn: func(_ context.Context, _ repository.AttendanceFilter) ([]models.Attendance, error) {
				return nil, nil
			},
		}
		svc := service.NewAttendanceService(repo, nil)

		_, _, err := svc.ExportReport(ctx, "EMP001", "", "")

		require.ErrorIs(t, err, report.ErrNoRecords)
	})
}
