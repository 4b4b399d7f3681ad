package models

// ContactForm represents the data structure coming from the contact page form
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Plan    string `json:"plan"`
	Message string `json:"message"`
}

// ConsultationForm represents a free-consultation booking request
type ConsultationForm struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	PreferredDate string `json:"preferredDate"` // ISO calendar date, e.g. 2026-09-14
	PreferredTime string `json:"preferredTime"` // 24h clock, e.g. 14:30
}

// KnowledgeFile carries metadata about a file the user attached in the
// dashboard. Only name and size travel with the form; the bytes are uploaded
// separately.
type KnowledgeFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// AgentRequestForm represents a dashboard request for a new AI agent
type AgentRequestForm struct {
	AgentType        string          `json:"agentType"` // inbound, outbound, customer-support
	VoicePreference  string          `json:"voicePreference"`
	KnowledgeBase    string          `json:"knowledgeBase"`
	KnowledgeFiles   []KnowledgeFile `json:"knowledgeFiles"`
	CRMTechStack     string          `json:"crmTechStack"`
	FullName         string          `json:"fullName"`
	Email            string          `json:"email"`
	WhatsAppNumber   string          `json:"whatsappNumber"`
	AdditionalInfo   string          `json:"additionalInfo"`
	UserName         string          `json:"userName"`
	SubscriptionPlan string          `json:"subscriptionPlan"` // used only for quota gating
}
