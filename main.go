package main

import "expenses/cmd"

// @title Despesas API
// @version 1.0
// @description Rastreador de despesas pessoais: cadastro, listagem, remoção e exportação.
// @host localhost:8080
// @BasePath /

func main() {
	cmd.Execute()
}
