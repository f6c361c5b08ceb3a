package factory

import "github.com/warp/inventory-ledger/ledger"

// =============================================================================
// DEFAULT CATALOG
// =============================================================================
// The shop's product list at go-live. Ids are stable strings so that stored
// ledgers can be migrated against this list.

// DefaultProducts returns a fresh copy of the default catalog, in display order.
func DefaultProducts() []ledger.Product {
	out := make([]ledger.Product, len(defaultProducts))
	copy(out, defaultProducts)
	return out
}

var defaultProducts = []ledger.Product{
	{ID: "1", Name: "赛伊港酿红", Unit: "瓶", Price: 0, Category: "酒水"},
	{ID: "2", Name: "玫瑰气泡酒", Unit: "瓶", Price: 0, Category: "酒水"},
	{ID: "3", Name: "特级赤夏珠", Unit: "瓶", Price: 0, Category: "酒水"},

	{ID: "4", Name: "勇闯天涯", Unit: "瓶", Price: 10, Category: "啤酒"},
	{ID: "5", Name: "雪花纯生", Unit: "瓶", Price: 18, Category: "啤酒"},
	{ID: "6", Name: "漓泉 1998", Unit: "瓶", Price: 18, Category: "啤酒"},
	{ID: "7", Name: "漓泉", Unit: "瓶", Price: 16, Category: "啤酒"},
	{ID: "8", Name: "雪花", Unit: "瓶", Price: 8, Category: "啤酒"},
	{ID: "9", Name: "百威", Unit: "瓶", Price: 25, Category: "啤酒"},

	{ID: "10", Name: "冰红茶", Unit: "瓶", Price: 8, Category: "饮料"},
	{ID: "11", Name: "苏打水", Unit: "瓶", Price: 6, Category: "饮料"},
	{ID: "12", Name: "矿泉水", Unit: "瓶", Price: 6, Category: "饮料"},
	{ID: "13", Name: "王老吉", Unit: "瓶", Price: 10, Category: "饮料"},
	{ID: "14", Name: "苹果醋", Unit: "瓶", Price: 12, Category: "饮料"},
	{ID: "15", Name: "百事可乐", Unit: "瓶", Price: 10, Category: "饮料"},
	{ID: "16", Name: "雪碧", Unit: "瓶", Price: 10, Category: "饮料"},
	{ID: "17", Name: "红牛", Unit: "罐", Price: 12, Category: "饮料"},
	{ID: "18", Name: "旺仔", Unit: "瓶", Price: 12, Category: "饮料"},
	{ID: "19", Name: "台椰", Unit: "瓶", Price: 18, Category: "饮料"},
	{ID: "20", Name: "阿萨姆", Unit: "瓶", Price: 13, Category: "饮料"},
	{ID: "21", Name: "东鹏", Unit: "瓶", Price: 10, Category: "饮料"},
	{ID: "22", Name: "津威", Unit: "板", Price: 25, Category: "饮料"},

	{ID: "23", Name: "土豆片小包", Unit: "包", Price: 18, Category: "零食"},
	{ID: "24", Name: "土豆丝小包", Unit: "包", Price: 12, Category: "零食"},
	{ID: "25", Name: "杨梅", Unit: "盒", Price: 26, Category: "零食"},
	{ID: "26", Name: "半边梅", Unit: "盒", Price: 26, Category: "零食"},
	{ID: "27", Name: "绿提子", Unit: "盒", Price: 26, Category: "零食"},
	{ID: "28", Name: "车厘子味李", Unit: "盒", Price: 26, Category: "零食"},
	{ID: "29", Name: "奶酸梅", Unit: "盒", Price: 26, Category: "零食"},
	{ID: "30", Name: "益达", Unit: "盒", Price: 28, Category: "零食"},
	{ID: "31", Name: "黑加仑味李", Unit: "盒", Price: 26, Category: "零食"},
	{ID: "32", Name: "情人梅", Unit: "盒", Price: 26, Category: "零食"},

	{ID: "33", Name: "扑克牌", Unit: "副", Price: 10, Category: "日用"},

	{ID: "34", Name: "情人梅(包)", Unit: "包", Price: 20, Category: "零食"},
	{ID: "35", Name: "九制杨梅", Unit: "包", Price: 20, Category: "零食"},
	{ID: "36", Name: "半边梅(包)", Unit: "包", Price: 20, Category: "零食"},
	{ID: "37", Name: "正宗话梅", Unit: "包", Price: 25, Category: "零食"},
	{ID: "38", Name: "鸡爪", Unit: "包", Price: 15, Category: "零食"},
	{ID: "39", Name: "笋尖", Unit: "包", Price: 13, Category: "零食"},
	{ID: "40", Name: "锅巴", Unit: "包", Price: 15, Category: "零食"},
	{ID: "41", Name: "蚕豆", Unit: "包", Price: 15, Category: "零食"},
	{ID: "42", Name: "寻唐记锅巴", Unit: "包", Price: 18, Category: "零食"},
	{ID: "43", Name: "猫耳朵", Unit: "包", Price: 16, Category: "零食"},
	{ID: "44", Name: "可比克薯片", Unit: "包", Price: 16, Category: "零食"},
	{ID: "45", Name: "开心果", Unit: "包", Price: 20, Category: "零食"},
	{ID: "46", Name: "洽洽瓜子", Unit: "包", Price: 16, Category: "零食"},
	{ID: "47", Name: "酒鬼花生", Unit: "包", Price: 15, Category: "零食"},
	{ID: "48", Name: "伊达鱿鱼丝", Unit: "包", Price: 20, Category: "零食"},

	{ID: "49", Name: "和成天下", Unit: "包", Price: 60, Category: "槟榔"},
	{ID: "50", Name: "口味王", Unit: "包", Price: 40, Category: "槟榔"},

	{ID: "51", Name: "细硬遵", Unit: "包", Price: 45, Category: "烟草"},
	{ID: "52", Name: "富贵", Unit: "包", Price: 60, Category: "烟草"},
	{ID: "53", Name: "软遵义", Unit: "包", Price: 45, Category: "烟草"},
	{ID: "54", Name: "硬遵义", Unit: "包", Price: 35, Category: "烟草"},
	{ID: "55", Name: "硬中华", Unit: "包", Price: 55, Category: "烟草"},
	{ID: "56", Name: "软中华", Unit: "包", Price: 80, Category: "烟草"},

	{ID: "57", Name: "爆米花", Unit: "桶", Price: 20, Category: "零食"},
	{ID: "58", Name: "素鳗鱼丝味", Unit: "袋", Price: 20, Category: "零食"},
	{ID: "59", Name: "香辣香酥鱼", Unit: "袋", Price: 20, Category: "零食"},
	{ID: "60", Name: "虾条", Unit: "袋", Price: 15, Category: "零食"},
	{ID: "61", Name: "榴莲味软糖", Unit: "袋", Price: 18, Category: "零食"},
	{ID: "62", Name: "馋嘴小麻花", Unit: "袋", Price: 18, Category: "零食"},
	{ID: "63", Name: "椒麻酥", Unit: "袋", Price: 15, Category: "零食"},
	{ID: "64", Name: "蓝莓味李果", Unit: "袋", Price: 20, Category: "零食"},
	{ID: "65", Name: "阿胶枣", Unit: "袋", Price: 20, Category: "零食"},
	{ID: "66", Name: "杨梅果干", Unit: "袋", Price: 20, Category: "零食"},
	{ID: "67", Name: "老婆梅", Unit: "袋", Price: 20, Category: "零食"},
	{ID: "68", Name: "半梅干", Unit: "袋", Price: 20, Category: "零食"},
	{ID: "69", Name: "妙酸梅", Unit: "袋", Price: 20, Category: "零食"},
	{ID: "70", Name: "空心脆", Unit: "袋", Price: 15, Category: "零食"},
	{ID: "71", Name: "麻辣卷", Unit: "袋", Price: 20, Category: "零食"},
	{ID: "73", Name: "手工素牛排", Unit: "袋", Price: 0, Category: "零食"},
	{ID: "74", Name: "哈哈辣棒", Unit: "袋", Price: 0, Category: "零食"},
	{ID: "75", Name: "摩力丝", Unit: "袋", Price: 0, Category: "零食"},
	{ID: "76", Name: "肥肠酥", Unit: "袋", Price: 0, Category: "零食"},
	{ID: "77", Name: "多味花生", Unit: "袋", Price: 0, Category: "零食"},
	{ID: "78", Name: "卤煮花生", Unit: "袋", Price: 18, Category: "零食"},
	{ID: "79", Name: "我de土豆", Unit: "袋", Price: 12, Category: "零食"},
	{ID: "80", Name: "盼盼薯片", Unit: "袋", Price: 18, Category: "零食"},
	{ID: "81", Name: "黄金豆", Unit: "袋", Price: 15, Category: "零食"},
}
