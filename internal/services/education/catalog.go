package education

import "github.com/bobmcallan/papertrade/internal/models"

// catalog is the built-in course list. Completed is always false here; the
// per-user flag is applied at read time.
var catalog = []models.LearningModule{
	{
		ID:          1,
		Title:       "Introduction to Stock Markets",
		Description: "Learn fundamental concepts of stock trading and market mechanics",
		Level:       "Beginner",
		Duration:    "2 hours",
		Icon:        "📈",
		Content: []models.ModuleContent{
			{Type: "text", Title: "What are Stocks?", Content: "Stocks represent ownership in a company..."},
			{Type: "video", Title: "Market Basics", Content: "intro_video.mp4"},
			{Type: "quiz", Title: "Knowledge Check", Content: "quiz_1"},
		},
	},
	{
		ID:          2,
		Title:       "Technical Analysis Fundamentals",
		Description: "Master charts, indicators, and technical analysis strategies",
		Level:       "Intermediate",
		Duration:    "4 hours",
		Icon:        "📊",
		Content: []models.ModuleContent{
			{Type: "text", Title: "Chart Patterns", Content: "Learn about common chart patterns..."},
			{Type: "interactive", Title: "Indicator Practice", Content: "indicator_tool"},
			{Type: "quiz", Title: "Technical Quiz", Content: "quiz_2"},
		},
	},
	{
		ID:          3,
		Title:       "Risk Management & Portfolio Optimization",
		Description: "Learn Value at Risk, Sharpe Ratio, and portfolio management",
		Level:       "Intermediate",
		Duration:    "3 hours",
		Icon:        "🛡️",
		Content: []models.ModuleContent{
			{Type: "text", Title: "Risk Metrics", Content: "Understanding VaR and Sharpe Ratio..."},
			{Type: "case_study", Title: "Portfolio Analysis", Content: "case_study_1"},
			{Type: "quiz", Title: "Risk Assessment", Content: "quiz_3"},
		},
	},
	{
		ID:          4,
		Title:       "AI in Financial Forecasting",
		Description: "Advanced course on LSTM and AI-driven predictions",
		Level:       "Advanced",
		Duration:    "5 hours",
		Icon:        "🤖",
		Content: []models.ModuleContent{
			{Type: "text", Title: "LSTM Networks", Content: "Understanding LSTM architecture..."},
			{Type: "practical", Title: "Model Building", Content: "hands_on_exercise"},
			{Type: "quiz", Title: "AI Concepts", Content: "quiz_4"},
		},
	},
}
