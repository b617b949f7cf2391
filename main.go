package main

import "github.com/llehouerou/folderplay/cmd"

func main() {
	cmd.Execute()
}
