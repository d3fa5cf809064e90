package ast

import (
	"github.com/dpotapov/go-msgcontent/markup"
)

// Alignment is the text alignment of a table cell.
type Alignment string

const (
	AlignNone   Alignment = ""
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

func (a Alignment) style() markup.Attr {
	return markup.If(a != AlignNone, "style", "text-align: "+string(a)+";")
}

// Table is a <table> with exactly one header row.
type Table struct {
	Head *THead
	Body *TBody
}

func (n *Table) Text() string { return "\n" + n.Head.Text() + n.Body.Text() }

func (n *Table) HTML() markup.HTML {
	return markup.BuildTag("table", markup.BlockJoin(n.Head.HTML(), n.Body.HTML()))
}

// THead holds the header row.
type THead struct {
	Row *Tr
}

func (n *THead) Text() string { return n.Row.Text() }

func (n *THead) HTML() markup.HTML {
	return markup.BuildTag("thead", markup.BlockJoin(n.Row.HTML()))
}

// TBody holds the body rows.
type TBody struct {
	Rows []*Tr
}

func (n *TBody) Text() string { return childrenText(n.Rows, "") }

func (n *TBody) HTML() markup.HTML {
	return markup.BuildTag("tbody", markup.BlockJoin(childrenHTML(n.Rows)...))
}

// Cell is either a *Th or a *Td.
type Cell interface {
	Node
	Align() Alignment
	cell()
}

// Tr is a table row. Header rows hold *Th cells, body rows *Td cells.
type Tr struct {
	Cells []Cell
}

func (n *Tr) Text() string { return childrenText(n.Cells, " | ") + "\n" }

func (n *Tr) HTML() markup.HTML {
	return markup.BuildTag("tr", markup.BlockJoin(childrenHTML(n.Cells)...))
}

// Th is a header cell.
type Th struct {
	Alignment Alignment
	Children  []Node
}

func (n *Th) Text() string     { return "TH: " + childrenText(n.Children, " ") }
func (n *Th) Align() Alignment { return n.Alignment }

func (n *Th) HTML() markup.HTML {
	return markup.BuildTag("th", combined(n.Children), n.Alignment.style())
}

// Td is a body cell.
type Td struct {
	Alignment Alignment
	Children  []Node
}

func (n *Td) Text() string     { return "TD: " + childrenText(n.Children, " ") }
func (n *Td) Align() Alignment { return n.Alignment }

func (n *Td) HTML() markup.HTML {
	return markup.BuildTag("td", combined(n.Children), n.Alignment.style())
}

func (n *Table) node() {}
func (n *THead) node() {}
func (n *TBody) node() {}
func (n *Tr) node()    {}
func (n *Th) node()    {}
func (n *Td) node()    {}

func (n *Th) cell() {}
func (n *Td) cell() {}

func (n *Table) block() {}
