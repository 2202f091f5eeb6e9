package synth

// Template assets for the generated text fields. Downstream video and
// publishing jobs match on this wording, emoji and hashtags, so edits here are
// visible to them.

const musicPromptTemplate = `Create {{.CategoryLower}} wave ambient music for deep sleep. Frequency: {{.Band}}. Blend soft ASMR textures warm atmosphere gentle sounds. No sudden changes. Everything slow peaceful intimate safe. Include subtle nature elements. Balanced frequencies zero harsh sounds.`

const videoTitleTemplate = `{{.Title}} 🌙 1 Hour Sleep Music`

const captionKRTemplate = `편안한 밤이에요 💙

이 음악은 {{.Category}} 파형({{.Band}})으로 깊은 휴식을 도와줘요. 하루의 피로를 부드럽게 풀어주는 시간이에요.

✨ 이렇게 들어보세요:
• 조용한 공간에서 편안한 자세로
• 천천히 호흡하며 음악에 집중해요
• 15-20분 정도 지나면 자연스럽게 졸음이 와요

💫 이 음악이 도와줄 거예요:
• 복잡한 생각을 내려놓을 수 있어요
• 몸과 마음의 긴장이 풀려요
• 깊고 편안한 잠에 빠져들어요

매일 밤 같은 시간에 루틴으로 만들면 더 효과적이에요. 뇌가 이 음악을 듣는 순간 자연스럽게 잠 준비를 시작하게 돼요.

오늘도 수고 많으셨어요 ✨
편안한 밤 되세요 🌙

#{{.Category}}Waves #DeepSleep #수면음악 #깊은수면 #BinauralBeats #힐링음악 #명상음악 #불면증 #숙면 #RelaxationMusic`

const captionENTemplate = `Have a peaceful night 💙

This music uses {{.Category}} waves ({{.Band}}) to help you rest deeply. It's time to gently release the day's fatigue.

✨ Here's how to listen:
• Find a quiet space and get comfortable
• Breathe slowly while focusing on the music
• After 15-20 minutes, you'll naturally feel sleepy

💫 This music will help you:
• Let go of complicated thoughts
• Release tension from body and mind
• Fall into deep, peaceful sleep

More effective when made into a nightly routine at the same time. Your brain will naturally start preparing for sleep the moment it hears this music.

You worked hard today ✨
Have a comfortable night 🌙

#{{.Category}}Waves #DeepSleep #SleepMusic #BinauralBeats #HealingMusic #Meditation #Insomnia #RestfulSleep #Relaxation`
