package worker

import (
	"github.com/Behnamfe76/user-auth-service/internal/service"
)

// StartAuditWorker subscribes the audit log to account events.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
