package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"order-entry/catalog"
	"order-entry/composer"
	"order-entry/errorx"
	"order-entry/history"
	"order-entry/logger"
	"order-entry/middlewares"
	"order-entry/photo"
	"order-entry/session"
	"order-entry/submission"
	"order-entry/utils"

	"github.com/gin-gonic/gin"
)

// SerialDisplay 流水号显示
type SerialDisplay interface {
	Current() string
	DisplayDate(date string) (string, error)
}

// OptionRanker 下拉选项
type OptionRanker interface {
	RankedOptions(ctx context.Context) ([]catalog.Group, error)
}

type OrderController struct {
	Sessions *session.Registry
	Ranker   OptionRanker
	Serial   SerialDisplay
	History  *history.Service
	Photos   *photo.Processor
	Log      logger.Logger
}

type sessionView struct {
	ID       string           `json:"id"`
	Items    []composer.Draft `json:"items"`
	Total    json.Number      `json:"total"`
	Serial   string           `json:"serial"`
	HasPhoto bool             `json:"hasPhoto"`
	State    string           `json:"state"`
}

type itemUpdate struct {
	Accessory  *string `json:"accessory"`
	CustomName *string `json:"customName"`
	PartNo     *string `json:"partNo"`
	Amount     *string `json:"amount"`
}

type deadLetter struct {
	SlNo   string `json:"sl_no" binding:"required"`
	Reason string `json:"reason"`
}

// RegisterRoutes 注册表单和历史接口
func (oc *OrderController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/sessions", oc.CreateSession)
		api.GET("/sessions/:id", oc.GetSession)
		api.DELETE("/sessions/:id", oc.DeleteSession)
		api.GET("/sessions/:id/serial", oc.GetSerial)
		api.POST("/sessions/:id/items", oc.AddItem)
		api.PATCH("/sessions/:id/items/:index", oc.UpdateItem)
		api.DELETE("/sessions/:id/items/:index", oc.RemoveItem)
		api.GET("/sessions/:id/total", oc.GetTotal)
		api.POST("/sessions/:id/photo", oc.UploadPhoto)
		api.DELETE("/sessions/:id/photo", oc.RemovePhoto)
		api.POST("/sessions/:id/submit", oc.Submit)

		api.GET("/catalog", oc.GetCatalog)
		api.GET("/orders", oc.ListOrders)
		api.GET("/orders/export", oc.ExportOrders)
	}

	// 死信处理端点
	r.POST("/dead-letter", oc.HandleDeadLetter)
}

func recordOperation(c *gin.Context, operation string) {
	status := c.Writer.Status() >= 200 && c.Writer.Status() < 300
	middlewares.RecordOrderOperation(operation, status)
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(errorx.HTTPStatus(err), gin.H{"error": err.Error()})
}

func (oc *OrderController) view(s *session.Session) sessionView {
	return sessionView{
		ID:       s.ID,
		Items:    s.Composer.Items(),
		Total:    utils.AmountNumber(s.Composer.Total()),
		Serial:   oc.Serial.Current(),
		HasPhoto: s.Photo() != "",
		State:    s.Coordinator.State().String(),
	}
}

func (oc *OrderController) session(c *gin.Context) (*session.Session, bool) {
	s, err := oc.Sessions.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return s, true
}

func itemIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item index"})
		return 0, false
	}
	return idx, true
}

// CreateSession 打开一个新的订单表单
func (oc *OrderController) CreateSession(c *gin.Context) {
	defer recordOperation(c, "create_session")

	s, err := oc.Sessions.Create(c.Request.Context())
	if err != nil {
		oc.Log.Errorf(c.Request.Context(), "create session: %v", err)
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, oc.view(s))
}

func (oc *OrderController) GetSession(c *gin.Context) {
	s, ok := oc.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, oc.view(s))
}

func (oc *OrderController) DeleteSession(c *gin.Context) {
	defer recordOperation(c, "delete_session")

	if err := oc.Sessions.Delete(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSerial 所选日期不是今天时返回 "Will be assigned"
func (oc *OrderController) GetSerial(c *gin.Context) {
	if _, ok := oc.session(c); !ok {
		return
	}
	serial, err := oc.Serial.DisplayDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"serial": serial})
}

func (oc *OrderController) AddItem(c *gin.Context) {
	defer recordOperation(c, "add_item")

	s, ok := oc.session(c)
	if !ok {
		return
	}
	idx, err := s.Composer.AddItem()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"index": idx, "items": s.Composer.Items()})
}

// UpdateItem 先处理配件选择，再应用其他字段
func (oc *OrderController) UpdateItem(c *gin.Context) {
	defer recordOperation(c, "update_item")

	s, ok := oc.session(c)
	if !ok {
		return
	}
	idx, ok := itemIndex(c)
	if !ok {
		return
	}
	var req itemUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	steps := []func() error{}
	if req.Accessory != nil {
		steps = append(steps, func() error { return s.Composer.SetItemAccessory(idx, *req.Accessory) })
	}
	if req.CustomName != nil {
		steps = append(steps, func() error { return s.Composer.SetCustomName(idx, *req.CustomName) })
	}
	if req.PartNo != nil {
		steps = append(steps, func() error { return s.Composer.SetPartNo(idx, *req.PartNo) })
	}
	if req.Amount != nil {
		steps = append(steps, func() error { return s.Composer.SetAmount(idx, *req.Amount) })
	}
	for _, step := range steps {
		if err := step(); err != nil {
			abortWithError(c, err)
			return
		}
	}
	items := s.Composer.Items()
	if idx < 0 || idx >= len(items) {
		abortWithError(c, errorx.ErrItemNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": items[idx], "total": utils.AmountNumber(s.Composer.Total())})
}

func (oc *OrderController) RemoveItem(c *gin.Context) {
	defer recordOperation(c, "remove_item")

	s, ok := oc.session(c)
	if !ok {
		return
	}
	idx, ok := itemIndex(c)
	if !ok {
		return
	}
	if err := s.Composer.RemoveItem(idx); err != nil {
		if errors.Is(err, errorx.ErrMinimumItems) {
			c.JSON(http.StatusConflict, gin.H{"error": "At least one item is required"})
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": s.Composer.Items(), "total": utils.AmountNumber(s.Composer.Total())})
}

func (oc *OrderController) GetTotal(c *gin.Context) {
	s, ok := oc.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": utils.AmountNumber(s.Composer.Total())})
}

// UploadPhoto multipart 字段 photo
func (oc *OrderController) UploadPhoto(c *gin.Context) {
	defer recordOperation(c, "upload_photo")

	s, ok := oc.session(c)
	if !ok {
		return
	}
	header, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if err := oc.Photos.Validate(mimeType, header.Size); err != nil {
		abortWithError(c, err)
		return
	}

	f, err := header.Open()
	if err != nil {
		abortWithError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		abortWithError(c, fmt.Errorf("read upload: %w", err))
		return
	}

	dataURL, err := oc.Photos.Process(mimeType, data)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := s.SetPhoto(dataURL); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo uploaded successfully", "photo": dataURL})
}

func (oc *OrderController) RemovePhoto(c *gin.Context) {
	s, ok := oc.session(c)
	if !ok {
		return
	}
	if err := s.ClearPhoto(); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo removed"})
}

// Submit 提交订单，远端失败时保存到本地
func (oc *OrderController) Submit(c *gin.Context) {
	defer recordOperation(c, "submit")

	s, ok := oc.session(c)
	if !ok {
		return
	}
	var form submission.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := logger.WithSessionID(c.Request.Context(), s.ID)
	out, err := s.Submit(ctx, form)
	if err != nil {
		switch {
		case errors.Is(err, errorx.ErrValidationFailed):
			middlewares.RecordSubmission("validation_failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all required fields"})
		default:
			middlewares.RecordSubmission("error")
			oc.Log.Errorf(ctx, "submit order: %v", err)
			abortWithError(c, err)
		}
		return
	}
	middlewares.RecordSubmission(out.State.String())

	order := out.Order
	order.Photo = ""
	c.JSON(http.StatusOK, gin.H{
		"message":    out.Message,
		"state":      out.State.String(),
		"local":      out.Local,
		"order":      order,
		"nextSerial": out.Serial,
	})
}

func (oc *OrderController) GetCatalog(c *gin.Context) {
	groups, err := oc.Ranker.RankedOptions(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// ListOrders 历史订单，q 为搜索关键字
func (oc *OrderController) ListOrders(c *gin.Context) {
	defer recordOperation(c, "list_orders")

	res, err := oc.History.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ExportOrders 导出 xlsx
func (oc *OrderController) ExportOrders(c *gin.Context) {
	defer recordOperation(c, "export_orders")

	res, err := oc.History.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := history.WriteXLSX(c.Writer, res.Orders); err != nil {
		oc.Log.Errorf(c.Request.Context(), "export orders: %v", err)
	}
}

// HandleDeadLetter 死信队列处理函数
func (oc *OrderController) HandleDeadLetter(c *gin.Context) {
	defer recordOperation(c, "dead_letter")

	var req deadLetter
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	oc.Log.Warnf(logger.WithSlNo(c.Request.Context(), req.SlNo), "dead letter for order %s: %s", req.SlNo, req.Reason)
	c.JSON(http.StatusOK, gin.H{"message": "Dead letter processed"})
}
