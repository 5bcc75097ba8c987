package dto

type CreateLinkDomainRequest struct {
	Domain string `json:"domain" binding:"required,hostname_rfc1123" msg:"Domain must be a valid hostname"`
}
