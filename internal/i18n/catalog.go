// Package i18n 内置的反馈文本 (en, de)
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale 找不到语言或键时回退到英文
const DefaultLocale = "en"

//go:embed messages/*.yaml
var messageFS embed.FS

// Catalog 语言 -> 键 -> 文本
type Catalog struct {
	messages map[string]map[string]string
}

// Load 读取内置的所有语言文件
func Load() (*Catalog, error) {
	entries, err := messageFS.ReadDir("messages")
	if err != nil {
		return nil, err
	}
	c := &Catalog{messages: make(map[string]map[string]string, len(entries))}
	for _, e := range entries {
		data, err := messageFS.ReadFile(path.Join("messages", e.Name()))
		if err != nil {
			return nil, err
		}
		var msgs map[string]string
		if err := yaml.Unmarshal(data, &msgs); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		c.messages[strings.TrimSuffix(e.Name(), ".yaml")] = msgs
	}
	if _, ok := c.messages[DefaultLocale]; !ok {
		return nil, fmt.Errorf("missing %s catalog", DefaultLocale)
	}
	return c, nil
}

// MustLoad 同 Load，失败时 panic
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Translate 查找文本，args 不为空时按 fmt 格式化。
// "de-AT"、"de_AT" 都按 "de" 处理；都找不到时返回键本身。
func (c *Catalog) Translate(locale, key string, args ...any) string {
	msg, ok := c.lookup(locale, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Locales 已加载的语言
func (c *Catalog) Locales() []string {
	locales := make([]string, 0, len(c.messages))
	for l := range c.messages {
		locales = append(locales, l)
	}
	return locales
}

func (c *Catalog) lookup(locale, key string) (string, bool) {
	lang := strings.ToLower(locale)
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	if msg, ok := c.messages[lang][key]; ok {
		return msg, true
	}
	msg, ok := c.messages[DefaultLocale][key]
	return msg, ok
}
