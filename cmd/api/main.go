package main

import "github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/cmd/api/cmd"

func main() {
	cmd.Execute()
}
