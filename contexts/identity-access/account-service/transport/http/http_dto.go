package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatarUrl"`
	BirthDate   string `json:"birthDate"`
}

type LoginRequest struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
}

type SessionResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

type ProfileResponse struct {
	ID                    string `json:"id"`
	Username              string `json:"username"`
	Email                 string `json:"email"`
	Role                  string `json:"role"`
	DisplayName           string `json:"displayName"`
	Bio                   string `json:"bio"`
	AvatarURL             string `json:"avatarUrl"`
	BirthDate             string `json:"birthDate,omitempty"`
	AgeVerifiedAt         string `json:"ageVerifiedAt,omitempty"`
	AccessPassActive      bool   `json:"accessPassActive"`
	AccessPassExpiresAt   string `json:"accessPassExpiresAt,omitempty"`
	SubscriptionActive    bool   `json:"subscriptionActive"`
	SubscriptionExpiresAt string `json:"subscriptionExpiresAt,omitempty"`
	VerifiedCreator       bool   `json:"verifiedCreator"`
	IsSuspended           bool   `json:"isSuspended"`
	SuspendedUntil        string `json:"suspendedUntil,omitempty"`
	CreatedAt             string `json:"createdAt"`
}
