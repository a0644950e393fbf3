package classifier

// DefaultSignatures returns the built-in allow-list of automated-client
// User-Agent signatures: search engine crawlers, social media link-preview
// fetchers and messaging bots. The list is a starting point; deployments
// override it via configuration as new crawlers appear.
func DefaultSignatures() []string {
	return []string{
		"googlebot",
		"bingbot",
		"yandex",
		"baiduspider",
		"duckduckbot",
		"applebot",
		"facebookexternalhit",
		"twitterbot",
		"linkedinbot",
		"slackbot",
		"telegrambot",
		"discordbot",
		"whatsapp",
		"pinterest",
		"embedly",
		"quora link preview",
		"redditbot",
		"rogerbot",
		"showyoubot",
		"outbrain",
		"vkshare",
		"qwantify",
		"bitlybot",
		"skypeuripreview",
		"tumblr",
		"w3c_validator",
	}
}
