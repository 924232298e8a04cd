package main

import "github.com/mlongerich/DonationTracker-sub005/cmd"

func main() {
	cmd.Execute()
}
