package history

import (
	"context"
	"strings"

	"order-entry/logger"
	"order-entry/models"
)

// RemoteSource 远端订单来源
type RemoteSource interface {
	Configured() bool
	FetchOrders(ctx context.Context) ([]models.Order, error)
}

// Result 订单列表及其来源
type Result struct {
	Orders []models.Order `json:"orders"`
	Source string         `json:"source"` // remote, local
}

type Service struct {
	remote RemoteSource
	local  *LocalOrders
	log    logger.Logger
}

func NewService(remote RemoteSource, local *LocalOrders, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{remote: remote, local: local, log: log}
}

// Fetch 演示模式读本地；远端失败时回退到本地列表
func (s *Service) Fetch(ctx context.Context) (Result, error) {
	if s.remote != nil && s.remote.Configured() {
		orders, err := s.remote.FetchOrders(ctx)
		if err == nil {
			if orders == nil {
				orders = []models.Order{}
			}
			return Result{Orders: orders, Source: "remote"}, nil
		}
		s.log.Warnf(ctx, "fetch remote orders failed, using local list: %v", err)
	}

	orders, err := s.local.List(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Orders: orders, Source: "local"}, nil
}

// Search 获取后按关键字过滤
func (s *Service) Search(ctx context.Context, query string) (Result, error) {
	res, err := s.Fetch(ctx)
	if err != nil {
		return res, err
	}
	res.Orders = Filter(res.Orders, query)
	return res, nil
}

// Filter 不区分大小写匹配客户、OTF、车型、底盘号和配件描述
func Filter(orders []models.Order, query string) []models.Order {
	q := strings.ToLower(query)
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if q == "" ||
			strings.Contains(strings.ToLower(o.CustomerName), q) ||
			strings.Contains(strings.ToLower(o.OTFNo), q) ||
			strings.Contains(strings.ToLower(o.VehicleModel), q) ||
			strings.Contains(strings.ToLower(o.ChassisNo), q) ||
			strings.Contains(strings.ToLower(o.ItemDescription), q) {
			out = append(out, o)
		}
	}
	return out
}
