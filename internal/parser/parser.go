// Package parser извлекает структурированные данные из HTML страниц портала.
package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/Freeeeeet/court_bot/internal/model"
	"golang.org/x/net/html"
)

// Классы контейнеров на страницах портала
const (
	dateContainerClass = "dataCont"
	areaContainerClass = "dataCont123"
	menuContainerClass = "menuCont"
	labelAttr          = "data-day"
)

// Parser разбирает страницы портала. Состояния не имеет.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// ExtractDatesAndAreas возвращает даты и зоны со страницы particulars
// в порядке их появления на странице.
func (p *Parser) ExtractDatesAndAreas(page []byte) ([]string, []string, error) {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, nil, fmt.Errorf("parse particulars page: %w", err)
	}

	var dates, areas []string
	if cont := findByClass(root, "div", dateContainerClass); cont != nil {
		dates = collectSpanAttr(cont, labelAttr)
	}
	if cont := findByClass(root, "div", areaContainerClass); cont != nil {
		areas = collectSpanAttr(cont, labelAttr)
	}

	return dates, areas, nil
}

// ExtractMenuItems возвращает пункты меню со страницы Index2.
// Ссылки без параметра type пропускаются.
func (p *Parser) ExtractMenuItems(page []byte) ([]model.MenuItem, error) {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse menu page: %w", err)
	}

	cont := findByClass(root, "div", menuContainerClass)
	if cont == nil {
		return nil, nil
	}

	items := make([]model.MenuItem, 0)
	walk(cont, func(n *html.Node) bool {
		if !isElement(n, "a") {
			return true
		}

		href := attr(n, "href")
		if href == "" {
			return false
		}
		link, err := url.Parse(href)
		if err != nil {
			return false
		}
		itemType := link.Query().Get("type")
		if itemType == "" {
			return false
		}

		name := "未知项目"
		if label := findElement(n, "p"); label != nil {
			name = strings.TrimSpace(textContent(label))
		}

		var image string
		if img := findElement(n, "img"); img != nil {
			image = attr(img, "src")
		}

		items = append(items, model.MenuItem{
			Name:     name,
			ItemType: itemType,
			ImageURL: image,
		})
		return false
	})

	return items, nil
}

func collectSpanAttr(root *html.Node, key string) []string {
	values := make([]string, 0)
	walk(root, func(n *html.Node) bool {
		if isElement(n, "span") {
			if v := strings.TrimSpace(attr(n, key)); v != "" {
				values = append(values, v)
			}
		}
		return true
	})
	return values
}

// walk обходит дерево в порядке документа; fn возвращает false, чтобы
// не спускаться в потомков узла.
func walk(n *html.Node, fn func(*html.Node) bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if fn(c) {
			walk(c, fn)
		}
	}
}

func findByClass(root *html.Node, tag, class string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if isElement(n, tag) && hasClass(n, class) {
			found = n
			return false
		}
		return true
	})
	return found
}

func findElement(root *html.Node, tag string) *html.Node {
	return findByClass(root, tag, "")
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func hasClass(n *html.Node, class string) bool {
	if class == "" {
		return true
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
