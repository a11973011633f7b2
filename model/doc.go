// Package model defines the output of a template parse: an order-preserving
// structural model of a word-processing document.
//
// A [Template] holds flat collections of the extracted entities (fields,
// tables, images, paragraph blocks) plus a [Structure] list that references
// them by id in exact source order:
//
//	for _, node := range tmpl.Structure {
//	    switch node.Type {
//	    case model.NodeParagraph:
//	        p := tmpl.Paragraph(node.ID)
//	    case model.NodeTable:
//	        t := tmpl.Table(node.ID)
//	    }
//	}
//
// Only Structure guarantees document order. Fields, Tables and Images are
// keyed collections; tables produced by page-break splitting are appended
// after the tables they were split from.
//
// Every type in this package is JSON-serializable and is never mutated once
// a parse completes.
package model
