// Package web 内嵌单页前端资源
package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
)

//go:embed index.html static/*
var assets embed.FS

var indexTpl = template.Must(template.ParseFS(assets, "index.html"))

// PageData 首页模板参数
type PageData struct {
	MaxTopicLength int
}

// RenderIndex 渲染首页
func RenderIndex(data PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := indexTpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Static 返回静态资源文件系统，根目录为 static/
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
