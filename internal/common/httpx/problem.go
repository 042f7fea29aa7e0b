package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"restaurant-pos/internal/domain"

	"github.com/gin-gonic/gin"
)

// Problem is the error body, shaped after RFC 7807.
type Problem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func StatusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidStateTransition, domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a problem and aborts the chain. Unclassified errors
// are logged and their text is withheld from the client.
func Error(c *gin.Context, err error) {
	status := StatusOf(err)
	kind := domain.KindOf(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		Logger(c).Error("request_failed", err, map[string]any{"path": c.FullPath()})
		detail = "internal error"
	}
	writeProblem(c, status, kind.String(), detail)
}

func BadRequest(c *gin.Context, detail string) {
	writeProblem(c, http.StatusBadRequest, domain.KindInvalidArgument.String(), detail)
}

func writeProblem(c *gin.Context, status int, kind, detail string) {
	c.AbortWithStatusJSON(status, Problem{
		Type:      "/problems/" + strings.ReplaceAll(strings.ToLower(kind), "_", "-"),
		Title:     kind,
		Status:    status,
		Detail:    detail,
		RequestID: Logger(c).RequestID(),
	})
}

// ParamID parses a positive integer path parameter, writing a 400 when it
// is malformed.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// QueryID is ParamID for query strings.
func QueryID(c *gin.Context, name string) (int64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok {
		BadRequest(c, name+" is required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// Bind decodes the JSON body into v, writing a 400 on malformed input.
func Bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		BadRequest(c, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
