//go:build mage

// Package main provides build targets for the puzzlebook project using Mage.
//
// Usage:
//
//	mage build        Compile puzzlebook binary to bin/
//	mage test:all     Run all tests
//	mage test:unit    Run library package tests only
//	mage test:race    Run all tests with the race detector
//	mage test:cover   Run all tests and report coverage
//	mage lint         Run go vet and golangci-lint
//	mage clean        Remove build artifacts
//	mage install      Install puzzlebook to GOPATH/bin
//	mage stats        Print Go line counts per top-level directory
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs are never counted by Stats.
var skipDirs = map[string]bool{
	".git":      true,
	"vendor":    true,
	binaryDir:   true,
	"magefiles": true,
	"_examples": true,
}

// Stats prints Go lines of code, production and test, per top-level directory.
func Stats() error {
	prod := map[string]int{}
	test := map[string]int{}

	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if skipDirs[path] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		count, countErr := countLines(path)
		if countErr != nil {
			return nil
		}
		top := strings.SplitN(filepath.ToSlash(path), "/", 2)[0]
		if strings.HasSuffix(path, "_test.go") {
			test[top] += count
		} else {
			prod[top] += count
		}
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(prod))
	for d := range prod {
		dirs = append(dirs, d)
	}
	for d := range test {
		if _, ok := prod[d]; !ok {
			dirs = append(dirs, d)
		}
	}
	sort.Strings(dirs)

	var totalProd, totalTest int
	fmt.Printf("%-12s %8s %8s\n", "dir", "prod", "test")
	for _, d := range dirs {
		fmt.Printf("%-12s %8d %8d\n", d, prod[d], test[d])
		totalProd += prod[d]
		totalTest += test[d]
	}
	fmt.Printf("%-12s %8d %8d\n", "total", totalProd, totalTest)
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
