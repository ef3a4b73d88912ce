package main

import "github.com/seo-optimizer/seoaudit/cmd"

func main() {
	cmd.Execute()
}
