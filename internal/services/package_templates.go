package services

import (
	"fmt"
	"strings"
)

// Japanese display names for field ttypes, used on the 【データ型】 line.
var jpDatatypeByTType = map[string]string{
	"char":      "文字列",
	"text":      "テキスト",
	"html":      "HTMLテキスト",
	"integer":   "整数",
	"float":     "小数",
	"monetary":  "金額",
	"boolean":   "真偽値",
	"date":      "日付",
	"datetime":  "日時",
	"selection": "選択肢",
	"many2one":  "参照",
	"one2many":  "明細",
	"many2many": "複数参照",
	"binary":    "バイナリ",
	"reference": "動的参照",
}

func jpDatatypeFor(ttype string) string {
	if jp, ok := jpDatatypeByTType[strings.ToLower(strings.TrimSpace(ttype))]; ok {
		return jp
	}
	return "文字列"
}

// RenderFieldDoc assembles the four-line field document. The 【説明】 line is
// dropped entirely when there are no notes.
func RenderFieldDoc(labelJa, model, fieldName, modelTable, ttype, jpDatatype, notesJa string) string {
	if strings.TrimSpace(jpDatatype) == "" {
		jpDatatype = jpDatatypeFor(ttype)
	}
	lines := []string{
		fmt.Sprintf("【フィールド】%s（%s.%s）", labelJa, model, fieldName),
		fmt.Sprintf("【データ型】%s（ttype=%s）", jpDatatype, ttype),
	}
	if strings.TrimSpace(notesJa) != "" {
		lines = append(lines, fmt.Sprintf("【説明】%s", notesJa))
	}
	lines = append(lines, fmt.Sprintf("【モデル】%s / %s", model, modelTable))
	return strings.Join(lines, "\n")
}

// RenderViewCommonDoc assembles the four-line view document.
func RenderViewCommonDoc(actionDisplay, aiPurposeJa, helpJaText, modelTech, modelTable, primaryViewType string) string {
	lines := []string{
		fmt.Sprintf("【画面】%s", actionDisplay),
		fmt.Sprintf("【目的】%s", aiPurposeJa),
		fmt.Sprintf("【使い方】%s", helpJaText),
		fmt.Sprintf("【モデル】%s / %s / 主ビュー=%s", modelTech, modelTable, primaryViewType),
	}
	return strings.Join(lines, "\n")
}
