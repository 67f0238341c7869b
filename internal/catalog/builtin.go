package catalog

import "github.com/daikw/philofight/internal/session"

func builtinPhilosophers() []Philosopher {
	return []Philosopher{
		{
			ID:     "socrates",
			Name:   "Socrates",
			Era:    "Classical Greece",
			School: "Socratic method",
			Quote:  "The unexamined life is not worth living.",
			Voice:  &Voice{Provider: "openai", VoiceID: "onyx"},
			Responses: []string{
				"Before we argue, tell me what you mean by that word.",
				"So you claim to know. How did you come to know it?",
				"Then it seems neither of us knows, but I at least know that I do not.",
			},
		},
		{
			ID:     "plato",
			Name:   "Plato",
			Era:    "Classical Greece",
			School: "Platonism",
			Quote:  "Opinion is the medium between knowledge and ignorance.",
			Voice:  &Voice{Provider: "openai", VoiceID: "fable"},
			Responses: []string{
				"What you see is a shadow on the wall of the cave.",
				"Justice is each part of the soul doing its own work.",
				"The form of the good is what makes every other thing knowable.",
			},
		},
		{
			ID:     "aristotle",
			Name:   "Aristotle",
			Era:    "Classical Greece",
			School: "Peripatetic",
			Quote:  "We are what we repeatedly do.",
			Voice:  &Voice{Provider: "openai", VoiceID: "echo"},
			Responses: []string{
				"Virtue lies in the mean between excess and deficiency.",
				"Happiness is an activity of the soul in accordance with virtue.",
				"Look at what a thing is for, and you will understand what it is.",
			},
		},
		{
			ID:     "confucius",
			Name:   "Confucius",
			Era:    "Spring and Autumn period",
			School: "Confucianism",
			Quote:  "Do not impose on others what you do not wish for yourself.",
			Voice:  &Voice{Provider: "openai", VoiceID: "alloy"},
			Responses: []string{
				"Virtue is cultivated in the family before it reaches the state.",
				"When names are not correct, language is not in accordance with truth.",
				"Learning without thought is labor lost.",
			},
		},
		{
			ID:     "seneca",
			Name:   "Seneca",
			Era:    "Roman Empire",
			School: "Stoicism",
			Quote:  "We suffer more often in imagination than in reality.",
			Voice:  &Voice{Provider: "polly", VoiceID: "Brian"},
			Responses: []string{
				"It is not that we have a short time to live, but that we waste much of it.",
				"Luck is what happens when preparation meets opportunity.",
				"Begin at once to live.",
			},
		},
		{
			ID:     "descartes",
			Name:   "René Descartes",
			Era:    "Early modern",
			School: "Rationalism",
			Quote:  "I think, therefore I am.",
			Voice:  &Voice{Provider: "polly", VoiceID: "Mathieu"},
			Responses: []string{
				"Let us doubt everything that can be doubted and see what remains.",
				"The mind is a thinking thing, distinct from extended matter.",
				"Clear and distinct ideas are the mark of truth.",
			},
		},
		{
			ID:     "hume",
			Name:   "David Hume",
			Era:    "Scottish Enlightenment",
			School: "Empiricism",
			Quote:  "Reason is, and ought only to be, the slave of the passions.",
			Voice:  &Voice{Provider: "elevenlabs", VoiceID: "Daniel"},
			Responses: []string{
				"You have never observed a cause, only one thing following another.",
				"Custom is the great guide of human life.",
				"You cannot derive an ought from an is.",
			},
		},
		{
			ID:     "kant",
			Name:   "Immanuel Kant",
			Era:    "Enlightenment",
			School: "Deontology",
			Quote:  "Act only according to that maxim whereby you can will that it should become a universal law.",
			Voice:  &Voice{Provider: "gcp", VoiceID: "de-DE-Neural2-B"},
			Responses: []string{
				"Would you will that everyone act on that maxim?",
				"Treat humanity never merely as a means, but always as an end.",
				"Consequences do not make an action right. Duty does.",
			},
		},
		{
			ID:     "mill",
			Name:   "John Stuart Mill",
			Era:    "Victorian",
			School: "Utilitarianism",
			Quote:  "It is better to be a human being dissatisfied than a pig satisfied.",
			Voice:  &Voice{Provider: "gcp", VoiceID: "en-GB-Neural2-B"},
			Responses: []string{
				"Actions are right as they tend to promote happiness.",
				"The only freedom worth the name is pursuing our own good in our own way.",
				"Count everyone for one, and no one for more than one.",
			},
		},
		{
			ID:     "nietzsche",
			Name:   "Friedrich Nietzsche",
			Era:    "19th century",
			School: "Existentialism",
			Quote:  "He who has a why to live can bear almost any how.",
			Voice:  &Voice{Provider: "elevenlabs", VoiceID: "Adam"},
			Responses: []string{
				"Your morality is the resentment of the weak dressed up as virtue.",
				"Become who you are.",
				"What does not kill me makes me stronger.",
			},
		},
		{
			ID:     "sartre",
			Name:   "Jean-Paul Sartre",
			Era:    "20th century",
			School: "Existentialism",
			Quote:  "Man is condemned to be free.",
			Voice:  &Voice{Provider: "openai", VoiceID: "nova"},
			Responses: []string{
				"Existence precedes essence. You make yourself.",
				"To refuse to choose is still a choice.",
				"Bad faith is pretending you had no alternative.",
			},
		},
		{
			ID:     "beauvoir",
			Name:   "Simone de Beauvoir",
			Era:    "20th century",
			School: "Existentialism",
			Quote:  "One is not born, but rather becomes, a woman.",
			Voice:  &Voice{Provider: "openai", VoiceID: "shimmer"},
			Responses: []string{
				"Freedom that ignores the freedom of others is no freedom at all.",
				"We must act in an ambiguous world without waiting for certainty.",
				"Situations shape us, but they do not finish us.",
			},
		},
	}
}

func builtinDebates() []Debate {
	return []Debate{
		{
			ID:          "trolley-problem",
			Title:       "The Trolley Problem",
			Topic:       "Is it right to sacrifice one to save five?",
			Category:    "ethics",
			Description: "Duty against consequences, with a runaway trolley in the middle.",
			Squad: &session.Squad{
				Name: "trolley-problem",
				Members: []session.Member{
					{PersonaID: "kant", Destinations: []session.Destination{{
						TargetPersonaName: "John Stuart Mill",
						Message:           "Let us hear the utilitarian reply.",
						Description:       "Hand off when the user asks about outcomes.",
					}}},
					{PersonaID: "mill", Destinations: []session.Destination{{
						TargetPersonaName: "Immanuel Kant",
						Message:           "Kant will object, as he always does.",
						Description:       "Hand off when the user raises duty or rights.",
					}}},
				},
			},
		},
		{
			ID:          "meaning-of-life",
			Title:       "Does Life Have Meaning?",
			Topic:       "Is meaning found, made, or an illusion?",
			Category:    "existentialism",
			Description: "Three existentialists disagree about what to do with freedom.",
			SquadID:     "squad-meaning-of-life",
			Squad: &session.Squad{
				Name: "meaning-of-life",
				Members: []session.Member{
					{PersonaID: "nietzsche", Destinations: []session.Destination{{TargetPersonaName: "Jean-Paul Sartre"}}},
					{PersonaID: "sartre", Destinations: []session.Destination{{TargetPersonaName: "Simone de Beauvoir"}}},
					{PersonaID: "beauvoir", Destinations: []session.Destination{{TargetPersonaName: "Friedrich Nietzsche"}}},
				},
			},
		},
		{
			ID:          "virtue",
			Title:       "East Meets West on Virtue",
			Topic:       "Is virtue a habit of the individual or a harmony of relationships?",
			Category:    "ethics",
			Description: "Aristotle's golden mean meets Confucian ritual propriety.",
			Squad: &session.Squad{
				Name: "virtue",
				Members: []session.Member{
					{PersonaID: "aristotle", Destinations: []session.Destination{{TargetPersonaName: "Confucius"}}},
					{PersonaID: "confucius", Destinations: []session.Destination{{TargetPersonaName: "Aristotle"}}},
				},
			},
		},
		{
			ID:          "mind-body",
			Title:       "Mind and Matter",
			Topic:       "Is the mind something over and above the body?",
			Category:    "metaphysics",
			Description: "The rationalist and the empiricist argue about what we can know of ourselves.",
			SquadID:     "squad-mind-body",
			Squad: &session.Squad{
				Name: "mind-body",
				Members: []session.Member{
					{PersonaID: "descartes", Destinations: []session.Destination{{TargetPersonaName: "David Hume"}}},
					{PersonaID: "hume", Destinations: []session.Destination{{TargetPersonaName: "René Descartes"}}},
				},
			},
		},
		{
			ID:          "examined-life",
			Title:       "The Examined Life",
			Topic:       "What do you actually know?",
			Category:    "epistemology",
			Description: "A one-on-one session with Socrates. Expect questions, not answers.",
			PersonaID:   "socrates",
		},
		{
			ID:          "cave",
			Title:       "Out of the Cave",
			Topic:       "Is the world you see the real one?",
			Category:    "metaphysics",
			Description: "Plato walks you through the allegory of the cave.",
			PersonaID:   "plato",
		},
		{
			ID:          "stoic-morning",
			Title:       "A Stoic Morning",
			Topic:       "How should you spend a short life?",
			Category:    "stoicism",
			Description: "Seneca on time, fear and preparation.",
			PersonaID:   "seneca",
		},
	}
}
