package catalog

import "net/http"

// ContentTemplate describes one content type the generator supports.
type ContentTemplate struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TemplateCatalog is the payload of the content://templates resource.
type TemplateCatalog struct {
	Templates []ContentTemplate `json:"templates"`
}

// ContentTemplates is served verbatim by the content://templates resource.
var ContentTemplates = TemplateCatalog{
	Templates: []ContentTemplate{
		{Type: "article", Name: "长文章", Description: "深度分析类长文章，适合今日头条、微信公众号"},
		{Type: "micro_post", Name: "微头条", Description: "短小精悍的微头条，适合快速传播"},
		{Type: "video_script", Name: "视频脚本", Description: "短视频脚本，适合抖音、快手"},
		{Type: "audio_script", Name: "音频脚本", Description: "播客/音频内容脚本"},
	},
}

var (
	contentTypes   = []string{"article", "micro_post", "video_script", "audio_script"}
	contentStyles  = []string{"professional", "casual", "humorous", "formal"}
	topicSources   = []string{"weibo", "toutiao", "zhihu", "douyin", "bilibili", "all"}
	publishTargets = []string{"toutiao", "douyin", "weibo", "xiaohongshu"}
	adaptTargets   = []string{"toutiao", "weibo", "wechat", "douyin", "xiaohongshu"}
	titleStyles    = []string{"clickbait", "professional", "emotional", "question"}
	titlePlatforms = []string{"toutiao", "weibo", "wechat", "douyin"}
	contentStatus  = []string{"draft", "published", "pending"}
	rankMetrics    = []string{"views", "engagement", "shares"}
	rankPeriods    = []string{"today", "week", "month"}
	reportTypes    = []string{"daily", "weekly", "monthly"}
	reportFormats  = []string{"json", "markdown"}
)

func pageParam() Param {
	return Param{Name: "page", Type: TypeInteger, Description: "Page number, starting at 1", Default: 1}
}

func limitParam(def int, what string) Param {
	return Param{Name: "limit", Type: TypeInteger, Description: what, Default: def}
}

func daysParam() Param {
	return Param{Name: "days", Type: TypeInteger, Description: "Number of days to cover", Default: 7}
}

func idParam(name, description string) Param {
	return Param{Name: name, Type: TypeString, Description: description, Required: true}
}

// Operations returns the built-in operation table. The order here is the
// order tools and resources are listed to the agent.
func Operations() []OperationSpec {
	return []OperationSpec{
		// Hot topics
		{
			Name:        "get_hot_topics",
			Description: "List trending topics collected from social platforms, optionally filtered by source and category.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/hot-topics",
			Params: []Param{
				limitParam(20, "Maximum number of topics to return"),
				{Name: "source", Type: TypeString, Description: "Source platform; \"all\" returns every platform", Default: Omit, OmitValue: "all", Enum: topicSources},
				{Name: "category", Type: TypeString, Description: "Category filter", Default: Omit},
			},
		},
		{
			Name:        "update_hot_topics",
			Description: "Trigger an immediate refresh of hot-topic data from all sources.",
			Kind:        KindTool,
			Method:      http.MethodPost,
			Path:        "/hot-topics/update",
		},
		{
			Name:        "analyze_topic",
			Description: "Get the AI analysis of a hot topic.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/hot-topics/{topic_id}",
			Params:      []Param{idParam("topic_id", "Topic ID")},
		},
		{
			Name:        "get_topic_trend",
			Description: "Get the popularity timeline of a hot topic.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/hot-topics/trends/timeline/{topic_id}",
			Params:      []Param{idParam("topic_id", "Topic ID"), daysParam()},
		},
		{
			Name:        "get_cross_platform_analysis",
			Description: "Compare how a topic trends across platforms, matched by title keywords.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/hot-topics/trends/cross-platform/{title}",
			Params:      []Param{idParam("title", "Topic title or keywords")},
		},
		{
			Name:        "search_news",
			Description: "Search collected news and topics by keyword.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/hot-topics/search",
			Params: []Param{
				idParam("q", "Search keyword"),
				limitParam(10, "Maximum number of results"),
			},
		},

		// Content
		{
			Name:        "generate_content",
			Description: "Generate content about a topic with the AI writer.",
			Kind:        KindTool,
			Method:      http.MethodPost,
			Path:        "/content/generate",
			Params: []Param{
				idParam("topic", "Topic or headline to write about"),
				{Name: "content_type", Type: TypeString, Description: "Content type", Default: "article", Enum: contentTypes},
				{Name: "style", Type: TypeString, Description: "Writing style", Default: "professional", Enum: contentStyles},
				{Name: "length", Type: TypeInteger, Description: "Target length in characters", Default: 1000},
				{Name: "keywords", Type: TypeStringArray, Description: "Keywords to include", Default: []string{}},
			},
			Body: []BodyField{
				{Key: "formData.topic", Param: "topic"},
				{Key: "formData.type", Param: "content_type"},
				{Key: "formData.style", Param: "style"},
				{Key: "formData.length", Param: "length"},
				{Key: "formData.keywords", Param: "keywords"},
				{Key: "type", Param: "content_type"},
			},
		},
		{
			Name:        "optimize_title",
			Description: "Rewrite a title for a target platform and style.",
			Kind:        KindTool,
			Method:      http.MethodPost,
			Path:        "/content/optimize-title",
			Params: []Param{
				idParam("title", "Original title"),
				{Name: "style", Type: TypeString, Description: "Title style", Default: "professional", Enum: titleStyles},
				{Name: "platform", Type: TypeString, Description: "Target platform", Default: "toutiao", Enum: titlePlatforms},
			},
			Body: []BodyField{
				{Key: "title", Param: "title"},
				{Key: "style", Param: "style"},
				{Key: "platform", Param: "platform"},
			},
		},
		{
			Name:        "adapt_platform",
			Description: "Adapt existing content to another platform's format.",
			Kind:        KindTool,
			Method:      http.MethodPost,
			Path:        "/content/adapt",
			Params: []Param{
				idParam("content_id", "Content ID"),
				{Name: "target_platform", Type: TypeString, Description: "Target platform", Required: true, Enum: adaptTargets},
				{Name: "preserve_style", Type: TypeBoolean, Description: "Keep the original writing style", Default: true},
			},
			Body: []BodyField{
				{Key: "contentId", Param: "content_id"},
				{Key: "platform", Param: "target_platform"},
				{Key: "preserveStyle", Param: "preserve_style"},
			},
		},
		{
			Name:        "get_content_list",
			Description: "List generated content, optionally filtered by status.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/content",
			Params: []Param{
				pageParam(),
				limitParam(20, "Items per page"),
				{Name: "status", Type: TypeString, Description: "Status filter", Default: Omit, Enum: contentStatus},
			},
		},
		{
			Name:        "get_content_detail",
			Description: "Get one content item.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/content/{content_id}",
			Params:      []Param{idParam("content_id", "Content ID")},
		},
		{
			Name:        "update_content",
			Description: "Update the title and/or body of a content item. Fields not supplied are left unchanged.",
			Kind:        KindTool,
			Method:      http.MethodPut,
			Path:        "/content/{content_id}",
			Params: []Param{
				idParam("content_id", "Content ID"),
				{Name: "title", Type: TypeString, Description: "New title", Default: Omit},
				{Name: "content", Type: TypeString, Description: "New body", Default: Omit},
			},
			Body: []BodyField{
				{Key: "title", Param: "title"},
				{Key: "content", Param: "content"},
			},
		},

		// Publishing
		{
			Name:        "publish_to_platform",
			Description: "Publish a content item to a platform, immediately or at a scheduled time.",
			Kind:        KindTool,
			Method:      http.MethodPost,
			Path:        "/publish/{platform}",
			Params: []Param{
				idParam("content_id", "Content ID"),
				{Name: "platform", Type: TypeString, Description: "Target platform", Default: "toutiao", Enum: publishTargets},
				{Name: "scheduled_time", Type: TypeString, Description: "Scheduled publish time (ISO 8601)", Default: Omit},
			},
			Body: []BodyField{
				{Key: "contentId", Param: "content_id"},
				{Key: "scheduledTime", Param: "scheduled_time"},
			},
		},
		{
			Name:        "get_publish_status",
			Description: "Get the status of one publish job.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/publish/status/{publish_id}",
			Params:      []Param{idParam("publish_id", "Publish record ID")},
		},
		{
			Name:        "get_publish_queue",
			Description: "List queued publish jobs.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/publish/queue",
			Params:      []Param{pageParam(), limitParam(20, "Items per page")},
		},
		{
			Name:        "get_publish_history",
			Description: "List completed publish jobs.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/publish/history",
			Params:      []Param{pageParam(), limitParam(20, "Items per page")},
		},

		// Analytics
		{
			Name:        "get_analytics_overview",
			Description: "Get headline analytics across all content.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/analytics/overview",
		},
		{
			Name:        "get_views_trend",
			Description: "Get daily view counts.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/analytics/views-trend",
			Params:      []Param{daysParam()},
		},
		{
			Name:        "get_top_content",
			Description: "Get the best performing content.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/analytics/top-content",
			Params: []Param{
				limitParam(10, "Number of items to return"),
				{Name: "metric", Type: TypeString, Description: "Ranking metric", Default: Omit, Enum: rankMetrics},
				{Name: "period", Type: TypeString, Description: "Time range", Default: Omit, Enum: rankPeriods},
			},
		},
		{
			Name:        "get_content_type_distribution",
			Description: "Get the share of content per content type.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/analytics/content-types",
		},
		{
			Name:        "analyze_trends",
			Description: "Analyze hot-topic trend data over a number of days.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/analytics/trends",
			Params: []Param{
				daysParam(),
				{Name: "category", Type: TypeString, Description: "Category filter", Default: Omit},
			},
		},
		{
			Name:        "get_analytics_report",
			Description: "Get a daily, weekly or monthly analytics report.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/analytics/report",
			Params: []Param{
				{Name: "report_type", QueryKey: "type", Type: TypeString, Description: "Report period", Default: "daily", Enum: reportTypes},
				{Name: "format", Type: TypeString, Description: "Output format", Default: "json", Enum: reportFormats},
			},
		},

		// AI
		{
			Name:        "list_llm_providers",
			Description: "List the AI providers and models the content API can use.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/llm/providers",
		},
		{
			Name:        "chat_with_ai",
			Description: "Send a single chat message to the AI service.",
			Kind:        KindTool,
			Method:      http.MethodPost,
			Path:        "/llm/chat",
			Params: []Param{
				idParam("message", "User message"),
				{Name: "system_prompt", Type: TypeString, Description: "System prompt", Default: Omit},
				{Name: "model", Type: TypeString, Description: "Model as provider/model", Default: Omit},
				{Name: "temperature", Type: TypeNumber, Description: "Sampling temperature between 0 and 2", Default: 0.7},
			},
			Body: []BodyField{
				{Key: "message", Param: "message"},
				{Key: "system", Param: "system_prompt"},
				{Key: "model", Param: "model"},
				{Key: "temperature", Param: "temperature"},
			},
		},

		// System
		{
			Name:        "get_system_status",
			Description: "Get the detailed health report of the content API.",
			Kind:        KindTool,
			Method:      http.MethodGet,
			Path:        "/health/detailed",
		},

		// Resources
		{
			Name:        "get_analytics_overview_resource",
			Description: "Analytics overview",
			Kind:        KindResource,
			URI:         "analytics://overview",
			Method:      http.MethodGet,
			Path:        "/analytics/overview",
		},
		{
			Name:        "get_daily_trends_resource",
			Description: "Today's top 20 hot topics",
			Kind:        KindResource,
			URI:         "trends://daily",
			Method:      http.MethodGet,
			Path:        "/hot-topics",
			Params:      []Param{limitParam(20, "Maximum number of topics")},
		},
		{
			Name:        "get_content_templates_resource",
			Description: "Supported content types and what each is for",
			Kind:        KindResource,
			URI:         "content://templates",
			Static:      ContentTemplates,
		},
	}
}

// Default builds the registry holding the built-in operation table.
func Default() *Registry {
	return NewRegistry().MustRegister(Operations()...)
}
