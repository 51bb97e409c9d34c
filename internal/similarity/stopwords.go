package similarity

var stopWords = func() map[string]struct{} {
	words := []string{
		"about", "above", "after", "again", "against", "all", "almost", "alone", "along", "already",
		"also", "although", "always", "am", "among", "an", "and", "another", "any", "anyone",
		"anything", "are", "around", "as", "at", "be", "became", "because", "become", "been",
		"before", "being", "below", "between", "both", "but", "by", "can", "cannot", "could",
		"did", "do", "does", "doing", "done", "down", "during", "each", "eg", "either",
		"else", "enough", "etc", "even", "ever", "every", "few", "for", "from", "further",
		"had", "has", "have", "having", "he", "her", "here", "hers", "herself", "him",
		"himself", "his", "how", "however", "ie", "if", "in", "into", "is", "it",
		"its", "itself", "just", "last", "least", "less", "made", "many", "may", "me",
		"might", "more", "most", "much", "must", "my", "myself", "neither", "never", "no",
		"nor", "not", "now", "of", "off", "often", "on", "once", "one", "only",
		"or", "other", "others", "otherwise", "our", "ours", "ourselves", "out", "over", "own",
		"per", "perhaps", "rather", "same", "several", "she", "should", "since", "so", "some",
		"such", "than", "that", "the", "their", "theirs", "them", "themselves", "then", "there",
		"these", "they", "this", "those", "though", "through", "thus", "to", "together", "too",
		"toward", "under", "until", "up", "upon", "us", "very", "via", "was", "we",
		"well", "were", "what", "whatever", "when", "where", "whether", "which", "while", "who",
		"whom", "whose", "why", "will", "with", "within", "without", "would", "yet", "you",
		"your", "yours", "yourself", "yourselves",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()
