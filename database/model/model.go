// Package model 包含所有数据库模型定义
// - config.go: PanelConfig（面板 API 版本）、ScrapeConfig（订阅页抓取版本）
//
// 两张表都只保存一行，保存时整表替换。
package model
