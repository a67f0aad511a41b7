package fipi

import "strconv"

// TasksRequest - тело POST /tasks. Все фасетные фильтры пустые,
// закреплены только предмет и страница.
type TasksRequest struct {
	SubjectID       string `json:"subjectId"`
	LevelIDs        []int  `json:"levelIds"`
	ThemeIDs        []int  `json:"themeIds"`
	TypeIDs         []int  `json:"typeIds"`
	ID              string `json:"id"`
	Favorites       int    `json:"favorites"`
	AnswerStatus    int    `json:"answerStatus"`
	ThemeSectionIDs []int  `json:"themeSectionIds"`
	Published       int    `json:"published"`
	ExtID           string `json:"extId"`
	FipiCode        string `json:"fipiCode"`
	DocID           string `json:"docId"`
	IsAdmin         bool   `json:"isAdmin"`
	LoadDates       []int  `json:"loadDates"`
	IsPublished     bool   `json:"isPublished"`
	PageSize        int    `json:"pageSize"`
	PageNumber      int    `json:"pageNumber"`
}

// NewTasksRequest - запрос первой страницы предмета. API ждёт subjectId строкой.
func NewTasksRequest(subjectID, pageSize int) TasksRequest {
	return TasksRequest{
		SubjectID:       strconv.Itoa(subjectID),
		LevelIDs:        []int{},
		ThemeIDs:        []int{},
		TypeIDs:         []int{},
		ThemeSectionIDs: []int{},
		LoadDates:       []int{},
		PageSize:        pageSize,
		PageNumber:      1,
	}
}
