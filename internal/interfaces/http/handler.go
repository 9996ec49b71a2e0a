package http

import (
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"lexirank/internal/application"
	"lexirank/internal/domain/model"
	"lexirank/internal/types"
)

// watcherSeq 为变更订阅连接分配订阅者 ID
var watcherSeq atomic.Uint64

// Handler 负责处理 HTTP 请求。
type Handler struct {
	indexService application.IndexService
}

// NewHandler 创建一个新的 Handler。
func NewHandler(indexService application.IndexService) *Handler {
	return &Handler{indexService: indexService}
}

// RegisterRoutes 注册路由。
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group(types.APIPrefix)
	{
		api.POST("/words", h.insert)
		api.DELETE("/words", h.erase)
		api.GET("/words/count", h.count)
		api.GET("/prefix/count", h.prefixCount)
		api.GET("/lcp", h.lcp)
		api.GET("/rank", h.rank)
		api.GET("/select/:n", h.selectNth)
		api.GET("/next", h.next)
		api.GET("/prev", h.prev)
		api.GET("/complete", h.complete)
		api.GET("/nearby", h.nearby)
		api.GET("/page", h.page)
		api.GET("/stats", h.stats)
		api.POST("/snapshot", h.snapshot)
		api.GET("/debug/nodes", h.debugNodes)
		api.GET("/watch", h.watch)
	}
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, types.Response{
		Code:    types.CodeSuccess,
		Message: types.ErrorMessages[types.CodeSuccess],
		Data:    data,
	})
}

func fail(c *gin.Context, status, code int) {
	c.JSON(status, types.Response{
		Code:    code,
		Message: types.ErrorMessages[code],
	})
}

// failErr 将领域错误映射为 HTTP 状态码与错误码。
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidWord):
		fail(c, http.StatusBadRequest, types.CodeInvalidParams)
	case errors.Is(err, model.ErrWordNotFound):
		fail(c, http.StatusNotFound, types.CodeNotFound)
	case errors.Is(err, model.ErrOutOfRange):
		fail(c, http.StatusNotFound, types.CodeOutOfRange)
	case errors.Is(err, model.ErrNoNeighbor):
		fail(c, http.StatusNotFound, types.CodeNoNeighbor)
	case errors.Is(err, model.ErrEmptyIndex):
		fail(c, http.StatusNotFound, types.CodeEmptyIndex)
	default:
		c.Error(err)
		fail(c, http.StatusInternalServerError, types.CodeInternalError)
	}
}

// requiredQuery 读取必填的 query 参数，缺失时写入 400 响应并返回 false。
func requiredQuery(c *gin.Context, key string) (string, bool) {
	v, exists := c.GetQuery(key)
	if !exists || v == "" {
		fail(c, http.StatusBadRequest, types.CodeInvalidParams)
		return "", false
	}
	return v, true
}

// intQuery 读取可选的整数 query 参数，并限制在 [1, upper] 内。
func intQuery(c *gin.Context, key string, def, upper int) (int, bool) {
	v := c.Query(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > upper {
		fail(c, http.StatusBadRequest, types.CodeInvalidParams)
		return 0, false
	}
	return n, true
}

func (h *Handler) insert(c *gin.Context) {
	var req types.InsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, types.CodeInvalidParams)
		return
	}

	n, err := h.indexService.Insert(req.Word)
	switch {
	case errors.Is(err, application.ErrInvalidWord):
		failErr(c, err)
		return
	case err != nil:
		// 已写入内存，但日志写入失败
		c.Error(err)
	}
	ok(c, http.StatusCreated, types.CountResponse{Word: req.Word, Count: n})
}

func (h *Handler) erase(c *gin.Context) {
	word, found := requiredQuery(c, "word")
	if !found {
		return
	}

	n, err := h.indexService.Erase(word)
	switch {
	case errors.Is(err, application.ErrInvalidWord), errors.Is(err, model.ErrWordNotFound):
		failErr(c, err)
		return
	case err != nil:
		c.Error(err)
	}
	ok(c, http.StatusOK, types.CountResponse{Word: word, Count: n})
}

func (h *Handler) count(c *gin.Context) {
	word, found := requiredQuery(c, "word")
	if !found {
		return
	}
	ok(c, http.StatusOK, types.CountResponse{Word: word, Count: h.indexService.Count(word)})
}

func (h *Handler) prefixCount(c *gin.Context) {
	// 空前缀合法，返回总数
	prefix := c.Query("prefix")
	ok(c, http.StatusOK, types.CountResponse{Word: prefix, Count: h.indexService.PrefixCount(prefix)})
}

func (h *Handler) lcp(c *gin.Context) {
	word := c.Query("word")
	last, _ := strconv.ParseBool(c.DefaultQuery("last", "false"))

	s, err := h.indexService.LCP(word, last)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, types.WordResponse{Word: s})
}

func (h *Handler) rank(c *gin.Context) {
	word, found := requiredQuery(c, "word")
	if !found {
		return
	}

	r, err := h.indexService.Rank(word)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, types.RankResponse{Word: word, Rank: r, Total: h.indexService.Stats().Total})
}

func (h *Handler) selectNth(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		fail(c, http.StatusBadRequest, types.CodeInvalidParams)
		return
	}

	s, err := h.indexService.Select(n)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, types.RankResponse{Word: s, Rank: n, Total: h.indexService.Stats().Total})
}

func (h *Handler) next(c *gin.Context) {
	h.neighbor(c, h.indexService.Next)
}

func (h *Handler) prev(c *gin.Context) {
	h.neighbor(c, h.indexService.Prev)
}

func (h *Handler) neighbor(c *gin.Context, query func(string) (string, error)) {
	word, found := requiredQuery(c, "word")
	if !found {
		return
	}

	s, err := query(word)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, types.WordResponse{Word: s})
}

func (h *Handler) complete(c *gin.Context) {
	limit, valid := intQuery(c, "limit", types.DefaultCompleteLimit, types.MaxPageSize)
	if !valid {
		return
	}
	ok(c, http.StatusOK, h.indexService.Complete(c.Query("prefix"), limit))
}

func (h *Handler) nearby(c *gin.Context) {
	word, found := requiredQuery(c, "word")
	if !found {
		return
	}
	count, valid := intQuery(c, "count", types.DefaultPageSize, types.MaxPageSize)
	if !valid {
		return
	}

	entries, err := h.indexService.Nearby(word, count)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, entries)
}

func (h *Handler) page(c *gin.Context) {
	start, valid := intQuery(c, "start", 1, math.MaxInt32)
	if !valid {
		return
	}
	count, valid := intQuery(c, "count", types.DefaultPageSize, types.MaxPageSize)
	if !valid {
		return
	}
	ok(c, http.StatusOK, h.indexService.Page(start, count))
}

func (h *Handler) stats(c *gin.Context) {
	ok(c, http.StatusOK, h.indexService.Stats())
}

func (h *Handler) snapshot(c *gin.Context) {
	if err := h.indexService.Snapshot(); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, h.indexService.Stats())
}

func (h *Handler) debugNodes(c *gin.Context) {
	ok(c, http.StatusOK, h.indexService.Nodes())
}

// watch 以 SSE 推送匹配 pattern 的变更事件，连接建立后先发送一条 ready 事件。
func (h *Handler) watch(c *gin.Context) {
	pattern := c.DefaultQuery("pattern", "*")
	id := "http-" + strconv.FormatUint(watcherSeq.Add(1), 10)

	events := make(chan model.Event, types.WatchBufferSize)
	err := h.indexService.Watch(id, pattern, func(_ string, ev model.Event) {
		select {
		case events <- ev:
		default:
			// 慢连接丢弃事件
		}
	})
	if err != nil {
		failErr(c, err)
		return
	}
	defer h.indexService.Unwatch(id)

	// 长连接不受服务器写超时限制；清除失败时连接会在写超时后被断开
	if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{}); err != nil {
		log.Printf("watch %s: clear write deadline: %v", id, err)
		c.Error(err)
	}

	c.SSEvent("ready", gin.H{"pattern": pattern})
	c.Writer.Flush()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev := <-events:
			c.SSEvent(ev.Op, ev)
			return true
		}
	})
}
