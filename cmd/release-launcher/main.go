// Command release-launcher brings the installation next to it up to date with
// the latest published release and then runs the application.
package main

import "github.com/oshokin/release-launcher/cmd/release-launcher/cmd"

func main() {
	cmd.Execute()
}
