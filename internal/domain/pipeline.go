package domain

// User is an authenticated account.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        Role      `json:"role"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// IsAdmin reports whether the user may use admin routes.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Name returns the display name, falling back to the email.
func (u *User) Name() string {
	if u == nil {
		return ""
	}
	return CoalesceStr(u.DisplayName, u.Email, u.ID)
}

type Deal struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	ClientID          string     `json:"clientId,omitempty"`
	Title             string     `json:"title"`
	Stage             DealStage  `json:"stage"`
	EntityType        EntityType `json:"entityType,omitempty"`
	Value             float64    `json:"value"`
	Probability       int        `json:"probability,omitempty"`
	ExpectedCloseDate *Timestamp `json:"expectedCloseDate,omitempty"`
	NextAction        string     `json:"nextAction,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         Timestamp  `json:"createdAt"`
	UpdatedAt         Timestamp  `json:"updatedAt"`
}

type DecisionMaker struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type Client struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Name           string          `json:"name"`
	EntityType     EntityType      `json:"entityType"`
	Status         ClientStatus    `json:"status"`
	City           string          `json:"city,omitempty"`
	Province       string          `json:"province,omitempty"`
	DecisionMakers []DecisionMaker `json:"decisionMakers,omitempty"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	LastContactAt  *Timestamp      `json:"lastContactAt,omitempty"`
	CreatedAt      Timestamp       `json:"createdAt"`
	UpdatedAt      Timestamp       `json:"updatedAt"`
}

type ValueExchange struct {
	Given    []string `json:"given,omitempty"`
	Received []string `json:"received,omitempty"`
	Balance  int      `json:"balance"`
}

// Relationship is a networking contact tracked outside the deal pipeline.
type Relationship struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	Name          string        `json:"name"`
	Company       string        `json:"company,omitempty"`
	Role          string        `json:"role,omitempty"`
	Category      string        `json:"category"`
	Strength      string        `json:"strength"`
	Importance    string        `json:"importance"`
	ValueExchange ValueExchange `json:"valueExchange"`
	LastContactAt *Timestamp    `json:"lastContactAt,omitempty"`
	NextAction    string        `json:"nextAction,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     Timestamp     `json:"createdAt"`
	UpdatedAt     Timestamp     `json:"updatedAt"`
}

type Activity struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	ClientID    string    `json:"clientId,omitempty"`
	DealID      string    `json:"dealId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Outcome     string    `json:"outcome,omitempty"`
	CreatedAt   Timestamp `json:"createdAt"`
}
