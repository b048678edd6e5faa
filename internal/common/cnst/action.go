package cnst

// AuditAction names an entry in the audit trail.
type AuditAction string

const (
	ActionCreateCarrousel    AuditAction = "create_carrousel"
	ActionDeleteCarrousel    AuditAction = "delete_carrousel"
	ActionApproveUser        AuditAction = "approve_user"
	ActionRejectUser         AuditAction = "reject_user"
	ActionBlockUser          AuditAction = "block_user"
	ActionUnblockUser        AuditAction = "unblock_user"
	ActionUpdateUserRole     AuditAction = "update_user_role"
	ActionDeleteUser         AuditAction = "delete_user"
	ActionUpsertSlideType    AuditAction = "upsert_slide_type"
	ActionCreateSlideType    AuditAction = "create_slide_type"
	ActionToggleSlideType    AuditAction = "toggle_slide_type"
	ActionDeleteSlideType    AuditAction = "delete_slide_type"
	ActionUpdateSlideImage   AuditAction = "update_slide_type_image"
	ActionUpdateSmtpConfig   AuditAction = "update_smtp_config"
	ActionUpdateAiConfig     AuditAction = "update_ai_config"
	ActionUpdateBrandConfig  AuditAction = "update_brand_config"
	ActionUploadBrandLogo    AuditAction = "upload_brand_logo"
	ActionUpdateSlideConfig  AuditAction = "update_slide_config"
	ActionCreateHelpResource AuditAction = "create_help_resource"
	ActionDeleteHelpResource AuditAction = "delete_help_resource"
	ActionClearAuditLog      AuditAction = "clear_audit_log"
)

// Entity types recorded alongside audit actions.
const (
	EntityCarrousel    = "carrousel"
	EntityUser         = "user"
	EntitySlideType    = "slide_type"
	EntitySmtpConfig   = "smtp_config"
	EntityAiConfig     = "ai_config"
	EntityBrandConfig  = "brand_config"
	EntitySlideConfig  = "slide_config"
	EntityHelpResource = "help_resource"
	EntityAuditLog     = "audit_log"
)
