package config

// QuestionBank - банк вопросов для локальной заглушки сервиса интервью
type QuestionBank struct {
	Blocks []Block `yaml:"blocks"`
}

// Block представляет одну тему вопросов
type Block struct {
	ID        int      `yaml:"id"`
	Name      string   `yaml:"name"`
	Title     string   `yaml:"title"`
	Questions []string `yaml:"questions"`
}

// TotalQuestions возвращает количество вопросов во всех блоках
func (b *QuestionBank) TotalQuestions() int {
	total := 0
	for _, block := range b.Blocks {
		total += len(block.Questions)
	}
	return total
}

// Pick выбирает до n вопросов, по очереди из каждого блока
func (b *QuestionBank) Pick(n int) []string {
	if n <= 0 {
		return nil
	}
	if total := b.TotalQuestions(); n > total {
		n = total
	}

	picked := make([]string, 0, n)
	for round := 0; len(picked) < n; round++ {
		for _, block := range b.Blocks {
			if round < len(block.Questions) {
				picked = append(picked, block.Questions[round])
				if len(picked) == n {
					break
				}
			}
		}
	}
	return picked
}
