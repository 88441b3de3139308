package models

import "sort"

// UsedIcons 源码中引用过的图标名集合
type UsedIcons map[string]struct{}

// NewUsedIcons 创建集合
func NewUsedIcons(names ...string) UsedIcons {
	used := make(UsedIcons, len(names))
	for _, name := range names {
		used.Add(name)
	}
	return used
}

// Add 添加图标名，重复添加无影响
func (u UsedIcons) Add(name string) {
	u[name] = struct{}{}
}

// Has 判断图标名是否被引用
func (u UsedIcons) Has(name string) bool {
	_, ok := u[name]
	return ok
}

// Names 返回排序后的图标名
func (u UsedIcons) Names() []string {
	names := make([]string, 0, len(u))
	for name := range u {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IconIndex 图标名到绝对路径的映射。
// 同名图标后出现的路径覆盖先前的路径，但保留该名字首次出现的位置。
type IconIndex struct {
	order []string
	paths map[string]string
}

// NewIconIndex 创建空索引
func NewIconIndex() *IconIndex {
	return &IconIndex{paths: make(map[string]string)}
}

// Set 记录图标路径，返回是否覆盖了已有条目
func (x *IconIndex) Set(name, path string) bool {
	if _, exists := x.paths[name]; exists {
		x.paths[name] = path
		return true
	}
	x.order = append(x.order, name)
	x.paths[name] = path
	return false
}

// Get 查询图标路径
func (x *IconIndex) Get(name string) (string, bool) {
	path, ok := x.paths[name]
	return path, ok
}

// Len 返回图标数量
func (x *IconIndex) Len() int {
	return len(x.order)
}

// Names 按首次出现顺序返回图标名
func (x *IconIndex) Names() []string {
	names := make([]string, len(x.order))
	copy(names, x.order)
	return names
}
