package main

import "github.com/taskwire/asana/cmd/asn"

func main() {
	asn.Main()
}
