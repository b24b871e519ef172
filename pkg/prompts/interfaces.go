package prompts

// CampaignPromptBuilder は、テキスト生成用のプロンプトを構築する契約です。
type CampaignPromptBuilder interface {
	// Build は、アイデアと語調・言語から3プラットフォーム分の投稿を依頼するプロンプトを生成します。
	Build(data TemplateData) (string, error)
}
