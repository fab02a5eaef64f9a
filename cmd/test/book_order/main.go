// Test program for the simulated right-to-left book order.
//
// Usage:
//
//	go run ./cmd/test/book_order/main.go <page-count>
//
// Prints the 1-based display order for a document of the given size:
// cover first, interior pages swapped pairwise, an odd final page last.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/yuanying/yomu/internal/reader"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <page-count>\n", os.Args[0])
		os.Exit(1)
	}

	n, err := strconv.Atoi(os.Args[1])
	if err != nil || n < 0 {
		fmt.Fprintf(os.Stderr, "Invalid page count: %s\n", os.Args[1])
		os.Exit(1)
	}

	order := reader.BookOrderNumbers(n)
	fmt.Printf("Pages:  %d\n", n)
	fmt.Printf("Order:  %v\n", order)
}
