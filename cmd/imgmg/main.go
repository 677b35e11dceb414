package main

import (
	_ "github.com/joho/godotenv/autoload" // automatically load .env files

	"github.com/ytget/imgmg/internal/cmd"
)

func main() {
	cmd.Execute()
}
