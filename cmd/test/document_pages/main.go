// Test program for the document providers.
//
// Usage:
//
//	go run ./cmd/test/document_pages/main.go <document-path>
//
// This program tests the following functionality:
// - Opening PDF, EPUB and CBZ files
// - Page enumeration and labels
// - Cover detection (first page)
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/yuanying/yomu/internal/document"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/test/document_pages/main.go <document-path>")
		os.Exit(1)
	}

	path := os.Args[1]
	fmt.Printf("Opening document: %s\n", path)

	doc, err := document.Open(path)
	if err != nil {
		log.Fatalf("Failed to open document: %v", err)
	}
	defer doc.Close()

	fmt.Printf("✓ Document opened successfully\n")
	fmt.Printf("Name:  %s\n", doc.Name())
	fmt.Printf("Key:   %s\n", doc.Key())
	fmt.Printf("Pages: %d\n\n", doc.PageCount())

	fmt.Println("Page list:")
	for i := 0; i < doc.PageCount(); i++ {
		p, err := doc.Page(i)
		if err != nil {
			log.Fatalf("Failed to read page %d: %v", i+1, err)
		}
		content := "no raw content"
		if p.HasContent() {
			content = "has raw content"
		}
		fmt.Printf("  p.%d  %s  (%s)\n", p.Number, p.Label, content)
	}

	fmt.Println("\n✓ All pages enumerated!")
}
