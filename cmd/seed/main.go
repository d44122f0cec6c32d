package main

import (
	"github.com/h-h0304/Commerce-Coupon/internal/config"
	"github.com/h-h0304/Commerce-Coupon/internal/constants"
	"github.com/h-h0304/Commerce-Coupon/internal/logger"
	"github.com/h-h0304/Commerce-Coupon/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库连接失败: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 默认管理员
	if err := models.InitDefaultAdmin(cfg.Admin.Email, cfg.Admin.Password); err != nil {
		stdLog.Printf("初始化默认管理员失败: %v", err)
	}

	// 演示商品
	products := []models.Product{
		{
			Name:        "无线蓝牙耳机",
			Description: "蓝牙 5.0，主动降噪，续航 24 小时",
			Price:       models.NewMoneyFromInt(99000),
			Stock:       120,
			Status:      constants.ProductStatusActive,
			ImageURL:    "https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
		},
		{
			Name:        "智能手表",
			Description: "心率监测，GPS 定位，支持 50 米防水",
			Price:       models.NewMoneyFromInt(199000),
			Stock:       80,
			Status:      constants.ProductStatusActive,
			ImageURL:    "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=800",
		},
		{
			Name:        "机械键盘",
			Description: "87 键，热插拔轴体，RGB 背光",
			Price:       models.NewMoneyFromInt(129000),
			Stock:       60,
			Status:      constants.ProductStatusActive,
			ImageURL:    "https://images.unsplash.com/photo-1511467687858-23d96c32e4ae?w=800",
		},
		{
			Name:        "便携保温杯",
			Description: "316 不锈钢内胆，保温 12 小时",
			Price:       models.NewMoneyFromInt(35000),
			Stock:       200,
			Status:      constants.ProductStatusActive,
			ImageURL:    "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=800",
		},
		{
			Name:        "限量版手办",
			Description: "限量发售，售完即止",
			Price:       models.NewMoneyFromInt(450000),
			Stock:       5,
			Status:      constants.ProductStatusActive,
			ImageURL:    "https://images.unsplash.com/photo-1608889175123-8ee362201f81?w=800",
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("name = ?", product.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("创建商品失败 %s: %v", product.Name, err)
			} else {
				stdLog.Printf("创建商品: %s", product.Name)
			}
		} else {
			stdLog.Printf("商品已存在: %s", product.Name)
		}
	}

	stdLog.Println("数据初始化完成")
}
