// Command racoon evaluates YAML manifests of files to fetch and verify.
package main

import "github.com/cameronsjo/racoon/internal/cmd"

func main() {
	cmd.Execute()
}
