/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ngx-tools/ngxcache/cmd/ngxcache/cmd"
)

func main() {
	cmd.Execute()
}
