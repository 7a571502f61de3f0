// Package i18n holds the static zh/vi string tables used by the booking
// message and the inline time hints.
package i18n

import (
	"golang.org/x/text/language"
)

type Lang string

const (
	LangZH Lang = "zh"
	LangVI Lang = "vi"
)

// DefaultLang is used whenever a request does not name a supported language.
const DefaultLang = LangZH

// Translator resolves a key to display text.
type Translator interface {
	Translate(key string, lang Lang) string
}

// Table is a static key -> language -> text mapping.
type Table map[string]map[Lang]string

// Translate returns the text for key in lang, falling back to the default
// language and finally to the key itself.
func (t Table) Translate(key string, lang Lang) string {
	entry, ok := t[key]
	if !ok {
		return key
	}
	if s, ok := entry[lang]; ok && s != "" {
		return s
	}
	if s, ok := entry[DefaultLang]; ok && s != "" {
		return s
	}
	return key
}

var matcher = language.NewMatcher([]language.Tag{
	language.Chinese,
	language.Vietnamese,
})

// Negotiate picks zh or vi from an Accept-Language header or a lang query value.
func Negotiate(accept string) Lang {
	if accept == "" {
		return DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	if idx == 1 {
		return LangVI
	}
	return LangZH
}

// Default is the site's string table.
var Default = Table{
	"opt_branch_1": {LangZH: "元化店｜中壢區元化路40號", LangVI: "Yuanhua｜No. 40 Yuanhua Rd"},
	"opt_branch_2": {LangZH: "忠福店｜中壢區福州一街262號", LangVI: "Zhongfu｜No. 262 Fuzhou 1st St"},

	"opt_bd_none":  {LangZH: "不適用", LangVI: "Không có"},
	"opt_bd_month": {LangZH: "本月生日（85折）", LangVI: "Sinh nhật tháng này (Giảm 15%)"},
	"opt_bd_week":  {LangZH: "本週生日（85折）", LangVI: "Sinh nhật tuần này (Giảm 15%)"},

	"opt_matte_none": {LangZH: "未指定", LangVI: "Không chỉ định"},
	"opt_matte_yes":  {LangZH: "要霧面", LangVI: "Có (Matte)"},
	"opt_matte_no":   {LangZH: "不用霧面", LangVI: "Không (Bóng)"},

	"srv_nail_title":   {LangZH: "精緻美甲", LangVI: "Nail Art Tinh Tế"},
	"srv_lash_title":   {LangZH: "3D/6D 美睫", LangVI: "Nối Mi 3D/6D"},
	"srv_tattoo_title": {LangZH: "霧唇霧眉", LangVI: "Phun Xăm Thẩm Mỹ"},
	"srv_wax_title":    {LangZH: "熱蠟除毛", LangVI: "Waxing Tẩy Lông"},

	"msg_greeting":  {LangZH: "您好，我想預約 🙋🏻‍♀️", LangVI: "Xin chào, tôi muốn đặt lịch 🙋🏻‍♀️"},
	"msg_name":      {LangZH: "👤 姓名/電話：", LangVI: "👤 Tên/SĐT:"},
	"msg_loc":       {LangZH: "📍 分店：", LangVI: "📍 Chi nhánh:"},
	"msg_time":      {LangZH: "🗓️ 時間：", LangVI: "🗓️ Thời gian:"},
	"msg_srv":       {LangZH: "🧾 項目：", LangVI: "🧾 Dịch vụ:"},
	"msg_bd":        {LangZH: "🎂 生日：", LangVI: "🎂 Sinh nhật:"},
	"msg_matte":     {LangZH: "✨ 霧面：", LangVI: "✨ Matte/Lì:"},
	"msg_style":     {LangZH: "🖼️ 風格：", LangVI: "🖼️ Kiểu dáng:"},
	"msg_img":       {LangZH: "📷 圖片：", LangVI: "📷 Ảnh mẫu:"},
	"msg_note":      {LangZH: "📝 備註：", LangVI: "📝 Ghi chú:"},
	"msg_footer":    {LangZH: "請協助確認時段與報價，謝謝！", LangVI: "Vui lòng kiểm tra thời gian và báo giá giúp tôi, cảm ơn!"},
	"msg_img_count": {LangZH: " 張（稍後傳送）", LangVI: " ảnh (gửi sau)"},
	"msg_none":      {LangZH: "無", LangVI: "Không"},

	"msg_warn_early": {LangZH: "早鳥時段需預約", LangVI: "Cần đặt trước (Sáng sớm)"},
	"msg_warn_late":  {LangZH: "夜間時段需預約", LangVI: "Cần đặt trước (Đêm)"},
	"msg_ok":         {LangZH: "營業時段", LangVI: "Giờ mở cửa"},

	"err_required":   {LangZH: "請填寫必填欄位 (*) 以生成訊息", LangVI: "Vui lòng điền các trường bắt buộc (*)"},
	"err_no_service": {LangZH: "請至少勾選一個服務項目", LangVI: "Vui lòng chọn ít nhất một dịch vụ"},
}
