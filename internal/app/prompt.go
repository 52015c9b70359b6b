package app

import (
	"fmt"
	"time"

	"github.com/abadojack/whatlanggo"

	"academy-qabot/internal/ai"
	"academy-qabot/internal/model"
)

// noContextText replaces an empty context block.
const noContextText = "검색된 관련 정보가 없습니다. 알 수 없는 내용은 추측하지 말고 담당 매니저에게 문의하도록 안내하세요."

const vacationInstruction = "당신은 학원 QA 봇입니다. 질문자는 \"AI+Lab_7기(Upstage_AI+6기)\"입니다. " +
	"당신의 역할은 학사 정책 및 절차, 휴학 신청 등과 관련된 질문에 답변하는 것입니다. " +
	"제공된 컨텍스트를 철저히 분석하여 모든 관련 세부사항을 추출하세요. 추가 자료를 참조할 때에는 " +
	"명시적으로 다음을 포함해야 합니다:\n" +
	"- 첨부파일은 해당 기수에 적합해야 합니다.\n" +
	"- 첨부파일은 질문과 관련있어야 합니다.\n" +
	"- 컨텍스트에 제공된 해당 소스 링크들\n" +
	"컨텍스트에 완전한 정보가 포함되어 있지 않더라도, 관련 첨부 파일들이 있는 경우 사용자가 추가 정보를 위해 해당 문서를 참조하도록 안내하세요.\n" +
	"또한, 가독성을 높이기 위해 답변은 bullet point 형식으로 작성하고, 소스 링크가 항상 포함되도록 하세요.\n" +
	"답변은 반드시 한글로 작성되어야 합니다."

const timetableInstruction = "당신은 학원 시간표 안내 봇입니다. 오늘 날짜는 %s입니다.\n" +
	"제공된 시간표 컨텍스트만 사용하여 질문에 답변하세요.\n" +
	"- 날짜는 YYYY년 MM월 DD일 형식으로 bullet point마다 하나씩 나열하세요.\n" +
	"- 답변에 요일 이름을 절대 쓰지 마세요.\n" +
	"- 컨텍스트에 해당 날짜의 일정이 없으면 일정 정보가 없다고 안내하세요.\n" +
	"답변은 반드시 한글로 작성되어야 합니다."

const legalInstruction = "당신은 학원 규정 및 관련 법령 안내 봇입니다. 제공된 컨텍스트의 조항을 근거로 질문에 답변하세요.\n" +
	"- 답변은 bullet point 형식으로 작성하세요.\n" +
	"- 각 항목마다 근거가 된 소스와 조항을 명시하세요.\n" +
	"- 컨텍스트에 근거가 없으면 추측하지 말고 확인할 수 없다고 답하세요.\n" +
	"답변은 반드시 한글로 작성되어야 합니다."

const etcInstruction = "당신은 학원 QA 봇입니다. 질문에 간결하고 정확하게 답변하세요. " +
	"확실하지 않은 내용은 추측하지 말고 담당 매니저에게 문의하도록 안내하세요. " +
	"답변은 반드시 %s로 작성되어야 합니다."

type promptInput struct {
	Context       string
	AttachedFiles string
	Question      string
	Now           time.Time
}

// BuildMessages assembles the chat messages for category: system
// instructions first, the user question last. An unknown category gets the
// etc messages.
func BuildMessages(category model.Category, contextText, attachedFiles, question string, now time.Time) []ai.ChatMessage {
	policy, ok := policyFor(category)
	if !ok {
		policy = categoryPolicies[model.CategoryEtc]
	}
	return policy.prompt(promptInput{
		Context:       contextText,
		AttachedFiles: attachedFiles,
		Question:      question,
		Now:           now,
	})
}

func vacationPrompt(in promptInput) []ai.ChatMessage {
	return []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: vacationInstruction},
		{Role: ai.RoleSystem, Content: "참조해야 하는 컨텍스트는 다음과 같습니다:\n" + contextOrNotice(in.Context)},
		{Role: ai.RoleSystem, Content: "추가 세부 정보가 포함될 수 있는 첨부 파일들은 다음과 같습니다:\n" + filesOrNone(in.AttachedFiles)},
		{Role: ai.RoleUser, Content: "위의 컨텍스트와 첨부 파일 정보를 사용하여, 다음 질문에 대해 포괄적으로 답변하세요:\n\n" + in.Question},
	}
}

func timetablePrompt(in promptInput) []ai.ChatMessage {
	return []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: fmt.Sprintf(timetableInstruction, TodayLabel(in.Now))},
		{Role: ai.RoleSystem, Content: "참조해야 하는 시간표 컨텍스트는 다음과 같습니다:\n" + contextOrNotice(in.Context)},
		{Role: ai.RoleSystem, Content: "추가 세부 정보가 포함될 수 있는 첨부 파일들은 다음과 같습니다:\n" + filesOrNone(in.AttachedFiles)},
		{Role: ai.RoleUser, Content: "위의 시간표 정보를 사용하여, 다음 질문에 답변하세요:\n\n" + in.Question},
	}
}

func legalPrompt(in promptInput) []ai.ChatMessage {
	return []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: legalInstruction},
		{Role: ai.RoleSystem, Content: "참조해야 하는 규정 컨텍스트는 다음과 같습니다:\n" + contextOrNotice(in.Context)},
		{Role: ai.RoleUser, Content: "위의 컨텍스트를 사용하여, 다음 질문에 답변하세요:\n\n" + in.Question},
	}
}

func etcPrompt(in promptInput) []ai.ChatMessage {
	return []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: fmt.Sprintf(etcInstruction, answerLanguage(in.Question))},
		{Role: ai.RoleUser, Content: in.Question},
	}
}

// answerLanguage names the language to answer in, in Korean. Questions that
// are not clearly English, Japanese or Chinese are answered in Korean.
func answerLanguage(question string) string {
	switch whatlanggo.Detect(question).Lang {
	case whatlanggo.Eng:
		return "영어"
	case whatlanggo.Jpn:
		return "일본어"
	case whatlanggo.Cmn:
		return "중국어"
	default:
		return "한글"
	}
}

func contextOrNotice(contextText string) string {
	if contextText == "" {
		return noContextText
	}
	return contextText
}

func filesOrNone(files string) string {
	if files == "" {
		return NoAttachedFiles
	}
	return files
}
