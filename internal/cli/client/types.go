package client

// Article mirrors the API article document. Content and Versions are absent
// from search results and Versions from listings.
type Article struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content,omitempty"`
	Application  string    `json:"application"`
	ErrorCode    string    `json:"errorCode,omitempty"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	Severity     string    `json:"severity"`
	Status       string    `json:"status"`
	Author       string    `json:"author"`
	LastEditedBy string    `json:"lastEditedBy,omitempty"`
	Views        int64     `json:"views"`
	Helpful      int64     `json:"helpful"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
	Versions     []Version `json:"versions,omitempty"`
}

type Version struct {
	Content           string `json:"content"`
	EditedBy          string `json:"editedBy"`
	EditedAt          string `json:"editedAt"`
	ChangeDescription string `json:"changeDescription,omitempty"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

type ArticleList struct {
	Articles   []Article  `json:"articles"`
	Pagination Pagination `json:"pagination"`
}

type SearchResults struct {
	Results []Article         `json:"results"`
	Count   int               `json:"count"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Pages   int               `json:"pages"`
	Query   map[string]string `json:"query"`
}

type VersionLog struct {
	Title    string    `json:"title"`
	Versions []Version `json:"versions"`
}

type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Color        string `json:"color"`
	Icon         string `json:"icon"`
	ArticleCount int64  `json:"articleCount"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

type CategoryStat struct {
	Category   string  `json:"_id"`
	Count      int64   `json:"count"`
	TotalViews int64   `json:"totalViews"`
	AvgHelpful float64 `json:"avgHelpful"`
}

type CategoryRefresh struct {
	Message    string     `json:"message"`
	Categories []Category `json:"categories"`
}

// ArticleDraft is the create request body.
type ArticleDraft struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Application string   `json:"application"`
	ErrorCode   string   `json:"errorCode,omitempty"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Severity    string   `json:"severity,omitempty"`
	Status      string   `json:"status,omitempty"`
	Author      string   `json:"author"`
}

// ArticleEdit is the update request body. Nil fields are left unchanged.
type ArticleEdit struct {
	Title       *string   `json:"title,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Application *string   `json:"application,omitempty"`
	ErrorCode   *string   `json:"errorCode,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Severity    *string   `json:"severity,omitempty"`
	Status      *string   `json:"status,omitempty"`

	SaveVersion       bool   `json:"saveVersion"`
	EditedBy          string `json:"editedBy,omitempty"`
	ChangeDescription string `json:"changeDescription,omitempty"`
}
