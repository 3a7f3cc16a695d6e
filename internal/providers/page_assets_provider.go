package providers

import (
	"bytes"
	"html/template"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"e84consent/internal/markup"
	"e84consent/internal/models"

	json "github.com/goccy/go-json"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	cssPropertyName  = regexp.MustCompile(`^--[a-z0-9-]+$`)
	cssPropertyValue = regexp.MustCompile(`^[#a-zA-Z0-9(),.%\s-]+$`)
	jsIdentifier     = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

type scriptData struct {
	objectName string
	data       models.ScriptData
}

// PageAssets collects what a component asks to be delivered with a page and
// emits it as head and footer fragments.
type PageAssets struct {
	styles     []models.Asset
	styleVars  map[string]map[string]string
	scripts    []models.Asset
	scriptData map[string]scriptData
	fragments  [][]byte
}

func NewPageAssets() *PageAssets {
	return &PageAssets{
		styleVars:  make(map[string]map[string]string),
		scriptData: make(map[string]scriptData),
	}
}

func (pa *PageAssets) EnqueueStyle(asset models.Asset) {
	pa.styles = append(pa.styles, asset)
}

// AddStyleVariables accepts CSS custom properties for the stylesheet with
// the given handle. Names or values outside the allowed grammar are dropped.
func (pa *PageAssets) AddStyleVariables(handle string, vars map[string]string) {
	dst, ok := pa.styleVars[handle]
	if !ok {
		dst = make(map[string]string, len(vars))
		pa.styleVars[handle] = dst
	}
	for name, value := range vars {
		value = strings.TrimSpace(value)
		if !cssPropertyName.MatchString(name) || !cssPropertyValue.MatchString(value) {
			continue
		}
		dst[name] = value
	}
}

func (pa *PageAssets) EnqueueScript(asset models.Asset) {
	pa.scripts = append(pa.scripts, asset)
}

func (pa *PageAssets) AttachScriptData(handle, objectName string, data models.ScriptData) {
	if !jsIdentifier.MatchString(objectName) {
		return
	}
	pa.scriptData[handle] = scriptData{objectName: objectName, data: data}
}

func (pa *PageAssets) AppendMarkup(fragment []byte) {
	pa.fragments = append(pa.fragments, fragment)
}

// Head renders stylesheets, their inline variables and header scripts.
func (pa *PageAssets) Head() (template.HTML, error) {
	var nodes []*html.Node
	for _, style := range pa.styles {
		nodes = append(nodes, markup.Element(atom.Link,
			markup.Attr("rel", "stylesheet"),
			markup.Attr("id", style.Handle+"-css"),
			markup.Attr("href", versioned(style)),
		))
		if vars := pa.styleVars[style.Handle]; len(vars) > 0 {
			nodes = append(nodes, markup.Append(markup.Element(atom.Style, markup.Attr("id", style.Handle+"-inline-css")), markup.Text(rootRule(vars))))
		}
	}
	for _, script := range pa.scripts {
		if !script.InFooter {
			scriptNodes, err := pa.scriptNodes(script)
			if err != nil {
				return "", err
			}
			nodes = append(nodes, scriptNodes...)
		}
	}
	return renderNodes(nodes)
}

// Footer renders collected markup followed by footer scripts.
func (pa *PageAssets) Footer() (template.HTML, error) {
	var buf bytes.Buffer
	for _, m := range pa.fragments {
		buf.Write(m)
	}

	var nodes []*html.Node
	for _, script := range pa.scripts {
		if script.InFooter {
			scriptNodes, err := pa.scriptNodes(script)
			if err != nil {
				return "", err
			}
			nodes = append(nodes, scriptNodes...)
		}
	}
	scripts, err := renderNodes(nodes)
	if err != nil {
		return "", err
	}
	buf.WriteString(string(scripts))
	return template.HTML(buf.String()), nil
}

func (pa *PageAssets) scriptNodes(script models.Asset) ([]*html.Node, error) {
	var nodes []*html.Node
	if sd, ok := pa.scriptData[script.Handle]; ok {
		// go-json escapes <, > and & so the payload cannot close the element.
		payload, err := json.Marshal(sd.data)
		if err != nil {
			return nil, err
		}
		body := "var " + sd.objectName + " = " + string(payload) + ";"
		nodes = append(nodes, markup.Append(markup.Element(atom.Script, markup.Attr("id", script.Handle+"-js-extra")), markup.Text(body)))
	}
	nodes = append(nodes, markup.Element(atom.Script,
		markup.Attr("id", script.Handle+"-js"),
		markup.Attr("src", versioned(script)),
	))
	return nodes, nil
}

func rootRule(vars map[string]string) string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)

	var sb strings.Builder
	sb.WriteString(":root{")
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteByte(':')
		sb.WriteString(vars[name])
		sb.WriteByte(';')
	}
	sb.WriteString("}")
	return sb.String()
}

func versioned(asset models.Asset) string {
	if asset.Version == "" {
		return asset.Src
	}
	sep := "?"
	if strings.Contains(asset.Src, "?") {
		sep = "&"
	}
	return asset.Src + sep + "ver=" + url.QueryEscape(asset.Version)
}

func renderNodes(nodes []*html.Node) (template.HTML, error) {
	out, err := markup.Render(nodes...)
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}
