package utils

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Alfabeto sem maiúsculas para que o identificador sobreviva em URLs e
// chaves do Redis sem ambiguidade
const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

const ClientIDLength = 10

func GenerateID() (string, error) {
	return NewID(ClientIDLength)
}

func NewID(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("utils: tamanho de identificador inválido: %d", length)
	}

	return gonanoid.Generate(idAlphabet, length)
}
