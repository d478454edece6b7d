package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadQuestionBank загружает банк вопросов из YAML файла
func LoadQuestionBank(filename string) (*QuestionBank, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}
	return ParseQuestionBank(data)
}

// ParseQuestionBank разбирает и проверяет банк вопросов
func ParseQuestionBank(data []byte) (*QuestionBank, error) {
	var bank QuestionBank
	err := yaml.Unmarshal(data, &bank)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	err = validateQuestionBank(&bank)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации банка вопросов: %w", err)
	}

	return &bank, nil
}

// validateQuestionBank проверяет корректность банка вопросов
func validateQuestionBank(bank *QuestionBank) error {
	if len(bank.Blocks) == 0 {
		return fmt.Errorf("нужен хотя бы один блок")
	}

	for i, block := range bank.Blocks {
		expectedID := i + 1
		if block.ID != expectedID {
			return fmt.Errorf("блок %d имеет неверный ID: ожидался %d, получен %d",
				i, expectedID, block.ID)
		}

		if block.Name == "" {
			return fmt.Errorf("блок %d должен иметь name", block.ID)
		}

		if len(block.Questions) == 0 {
			return fmt.Errorf("блок %d должен содержать вопросы", block.ID)
		}

		for j, q := range block.Questions {
			if strings.TrimSpace(q) == "" {
				return fmt.Errorf("блок %d: вопрос %d пустой", block.ID, j+1)
			}
		}
	}

	return nil
}
