package domain

const (
	RoleAdmin = "admin"

	// Audit entity types
	EntityCurrency       = "currency"
	EntityPairRate       = "pair_rate"
	EntityCommissionTier = "commission_tier"

	AuditActionUpsert  = "upsert"
	AuditActionDelete  = "delete"
	AuditActionReplace = "replace"
)
