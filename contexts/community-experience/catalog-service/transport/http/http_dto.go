package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type FileInput struct {
	URL        string `json:"url"`
	Type       string `json:"type"`
	Thumbnail  string `json:"thumbnail"`
	PriceCents *int64 `json:"priceCents,omitempty"`
}

type CreateContentRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Files       []FileInput `json:"files"`
}

type CreatorSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

type Stats struct {
	Views int64 `json:"views"`
	Likes int64 `json:"likes"`
}

type ContentListItem struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Creator     CreatorSummary `json:"creator"`
	PreviewURL  string         `json:"previewUrl,omitempty"`
	Thumbnail   string         `json:"thumbnail,omitempty"`
	PriceCents  *int64         `json:"priceCents"`
	Unlocked    bool           `json:"unlocked"`
	IsPreview   bool           `json:"isPreview"`
	Stats       Stats          `json:"stats"`
	CreatedAt   string         `json:"createdAt"`
}

type ContentFile struct {
	URL        string `json:"url,omitempty"`
	Type       string `json:"type"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	PriceCents *int64 `json:"priceCents"`
	IsLocked   bool   `json:"isLocked"`
}

type ContentDetailResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Creator     CreatorSummary `json:"creator"`
	Files       []ContentFile  `json:"files"`
	CanAccess   bool           `json:"canAccess"`
	IsPreview   bool           `json:"isPreview"`
	IsOwner     bool           `json:"isOwner"`
	Stats       Stats          `json:"stats"`
	CreatedAt   string         `json:"createdAt"`
}

type CreatorCard struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatarUrl"`
	Verified    bool   `json:"verified"`
	IsSuspended bool   `json:"isSuspended"`
}

type CreatorProfileResponse struct {
	CreatorCard
	Contents []ContentListItem `json:"contents"`
}
